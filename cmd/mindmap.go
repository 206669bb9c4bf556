package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmorales/opotutor/internal/mindmap"
	"github.com/rmorales/opotutor/internal/store"
)

var mindmapCmd = &cobra.Command{
	Use:   "mindmap",
	Short: "Generate and export concept mind maps",
}

var mindmapGenerateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a mind map for a syllabus topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.Join(args, " ")

		st, provider, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
		defer cancel()

		fmt.Printf("Generando mapa mental de %q...\n", topic)
		root, err := mindmap.Generate(ctx, provider, topic)
		if err != nil {
			return fmt.Errorf("generate mind map: %w", err)
		}

		st.StateRepo().Save(cmd.Context(), store.KeyMindMap, root)

		fmt.Println()
		fmt.Print(mindmap.ExportOutline(root))
		return nil
	},
}

var mindmapShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the last generated mind map as an outline",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, st, err := loadMindMap(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Print(mindmap.ExportOutline(root))
		return nil
	},
}

var mindmapEditCmd = &cobra.Command{
	Use:   "edit <node-id> <new-text>",
	Short: "Rename a node of the stored mind map",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		text := strings.Join(args[1:], " ")

		root, st, err := loadMindMap(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if mindmap.Find(root, id) == nil {
			return fmt.Errorf("node %q not found", id)
		}

		updated := mindmap.UpdateNodeText(root, id, text)
		st.StateRepo().Save(cmd.Context(), store.KeyMindMap, updated)

		fmt.Print(mindmap.ExportOutline(updated))
		return nil
	},
}

var mindmapExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the stored mind map (format from file extension: .json, .md, .png, .pdf)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		root, st, err := loadMindMap(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()

		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			data, err := mindmap.ExportJSON(root)
			if err != nil {
				return fmt.Errorf("export JSON: %w", err)
			}
			if _, err := f.Write(data); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case ".md", ".txt":
			if _, err := f.WriteString(mindmap.ExportOutline(root)); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case ".png":
			if err := mindmap.ExportPNG(root, f); err != nil {
				return fmt.Errorf("export PNG: %w", err)
			}
		case ".pdf":
			if err := mindmap.ExportPDF(root, f); err != nil {
				return fmt.Errorf("export PDF: %w", err)
			}
		default:
			return fmt.Errorf("unsupported export format %q (use .json, .md, .png or .pdf)", filepath.Ext(path))
		}

		fmt.Printf("Mapa mental exportado a %s\n", path)
		return nil
	},
}

// loadMindMap opens the store and reads the persisted map. The caller
// owns the returned store and must close it.
func loadMindMap(cmd *cobra.Command) (*mindmap.Node, *store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	var root mindmap.Node
	if !st.StateRepo().Load(cmd.Context(), store.KeyMindMap, &root) {
		st.Close()
		return nil, nil, fmt.Errorf("no stored mind map, run 'opotutor mindmap generate <topic>' first")
	}
	return &root, st, nil
}

func init() {
	mindmapCmd.AddCommand(mindmapGenerateCmd)
	mindmapCmd.AddCommand(mindmapShowCmd)
	mindmapCmd.AddCommand(mindmapEditCmd)
	mindmapCmd.AddCommand(mindmapExportCmd)
}
