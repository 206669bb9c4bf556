package mindmap

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fogleman/gg"
	"github.com/jung-kurt/gofpdf"
)

// ExportJSON serializes the tree as an indented JSON document.
func ExportJSON(root *Node) ([]byte, error) {
	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal mind map: %w", err)
	}
	return out, nil
}

// ExportOutline serializes the tree as an indented bullet outline, one
// bullet per node, two spaces of indentation per depth level, in
// depth-first preorder.
func ExportOutline(root *Node) string {
	if root == nil {
		return ""
	}

	var b strings.Builder

	type frame struct {
		node  *Node
		depth int
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b.WriteString(strings.Repeat("  ", f.depth))
		b.WriteString("- ")
		b.WriteString(f.node.Text)
		b.WriteString("\n")

		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
	return b.String()
}

// Raster layout constants.
const (
	pngColWidth  = 260
	pngRowHeight = 48
	pngPadding   = 40
	pngBoxHeight = 32
)

// layoutNode is one positioned node for rendering.
type layoutNode struct {
	node   *Node
	x, y   float64
	parent *layoutNode
}

// ExportPNG renders the tree as a left-to-right layered diagram: root at
// the left, one row per leaf, parents vertically centered over their
// subtrees.
func ExportPNG(root *Node, w io.Writer) error {
	if root == nil {
		return fmt.Errorf("empty mind map")
	}

	var nodes []*layoutNode
	nextRow := 0
	maxDepth := 0

	var place func(n *Node, depth int, parent *layoutNode) *layoutNode
	place = func(n *Node, depth int, parent *layoutNode) *layoutNode {
		if depth > maxDepth {
			maxDepth = depth
		}
		ln := &layoutNode{node: n, parent: parent, x: float64(pngPadding + depth*pngColWidth)}

		if len(n.Children) == 0 {
			ln.y = float64(pngPadding + nextRow*pngRowHeight)
			nextRow++
		} else {
			var sum float64
			for _, child := range n.Children {
				sum += place(child, depth+1, ln).y
			}
			ln.y = sum / float64(len(n.Children))
		}

		nodes = append(nodes, ln)
		return ln
	}
	place(root, 0, nil)

	width := pngPadding*2 + (maxDepth+1)*pngColWidth
	height := pngPadding*2 + nextRow*pngRowHeight
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Edges first so boxes draw over them.
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1.5)
	for _, ln := range nodes {
		if ln.parent == nil {
			continue
		}
		dc.DrawLine(ln.parent.x+pngColWidth*0.8, ln.parent.y+pngBoxHeight/2, ln.x, ln.y+pngBoxHeight/2)
		dc.Stroke()
	}

	for _, ln := range nodes {
		boxW := pngColWidth * 0.8
		dc.SetRGB(0.92, 0.95, 1)
		dc.DrawRoundedRectangle(ln.x, ln.y, boxW, pngBoxHeight, 6)
		dc.Fill()
		dc.SetRGB(0.3, 0.4, 0.7)
		dc.DrawRoundedRectangle(ln.x, ln.y, boxW, pngBoxHeight, 6)
		dc.Stroke()

		dc.SetRGB(0.1, 0.1, 0.2)
		dc.DrawStringAnchored(truncateLabel(ln.node.Text, 32), ln.x+boxW/2, ln.y+pngBoxHeight/2, 0.5, 0.35)
	}

	return dc.EncodePNG(w)
}

// ExportPDF writes the tree as an outline document.
func ExportPDF(root *Node, w io.Writer) error {
	if root == nil {
		return fmt.Errorf("empty mind map")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(root.Text), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)

	type frame struct {
		node  *Node
		depth int
	}
	var stack []frame
	for i := len(root.Children) - 1; i >= 0; i-- {
		stack = append(stack, frame{root.Children[i], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		pdf.SetX(10 + float64(f.depth)*6)
		pdf.MultiCell(0, 6, tr("• "+f.node.Text), "", "L", false)

		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}

	return pdf.Output(w)
}

func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
