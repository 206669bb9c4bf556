package mindmap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rmorales/opotutor/internal/llm"
)

func testTree() *Node {
	return &Node{
		ID:   "root",
		Text: "Jubilación",
		Children: []*Node{
			{
				ID:   "n1",
				Text: "Requisitos",
				Children: []*Node{
					{ID: "n1a", Text: "Edad ordinaria"},
					{ID: "n1b", Text: "Periodo mínimo de cotización"},
				},
			},
			{
				ID:   "n2",
				Text: "Base reguladora",
			},
		},
	}
}

func TestParse_WellFormed(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "root", "text": "Jubilación",
		"children": [
			{"id": "a", "text": "Requisitos", "children": []},
			{"id": "b", "text": "Cuantía"}
		]
	}`)

	root, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Text != "Jubilación" || len(root.Children) != 2 {
		t.Fatalf("tree = %+v", root)
	}
}

func TestParse_MissingID(t *testing.T) {
	raw := json.RawMessage(`{"id": "root", "text": "t", "children": [{"text": "sin id"}]}`)

	_, err := Parse(raw)
	if err == nil {
		t.Fatal("expected error")
	}
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %T", err)
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse(json.RawMessage(`{broken`))
	if err == nil {
		t.Fatal("expected error")
	}
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %T", err)
	}
}

func TestUpdateNodeText_ChangesOnlyMatch(t *testing.T) {
	tree := testTree()
	updated := UpdateNodeText(tree, "n1b", "Quince años cotizados")

	if got := Find(updated, "n1b").Text; got != "Quince años cotizados" {
		t.Errorf("updated text = %q", got)
	}
	// Everything else untouched.
	if Find(updated, "n1a").Text != "Edad ordinaria" || Find(updated, "n2").Text != "Base reguladora" {
		t.Error("other nodes changed")
	}
	// Input not mutated.
	if Find(tree, "n1b").Text != "Periodo mínimo de cotización" {
		t.Error("input tree was mutated")
	}
	if countNodes(updated) != countNodes(tree) {
		t.Error("tree shape changed")
	}
}

func TestUpdateNodeText_UnknownIDReturnsEqualTree(t *testing.T) {
	tree := testTree()
	updated := UpdateNodeText(tree, "missing", "x")

	if !reflect.DeepEqual(tree, updated) {
		t.Error("expected deep-equal tree for unknown id")
	}
}

func TestUpdateNodeText_FirstMatchWins(t *testing.T) {
	tree := &Node{
		ID:   "root",
		Text: "r",
		Children: []*Node{
			{ID: "dup", Text: "first"},
			{ID: "dup", Text: "second"},
		},
	}

	updated := UpdateNodeText(tree, "dup", "changed")

	if updated.Children[0].Text != "changed" {
		t.Error("first match not updated")
	}
	if updated.Children[1].Text != "second" {
		t.Error("second match must stay untouched")
	}
}

func TestUpdateNodeText_DeepTree(t *testing.T) {
	// A pathological chain deep enough to break naive recursion.
	root := &Node{ID: "n0", Text: "t"}
	current := root
	for i := 1; i <= 50000; i++ {
		child := &Node{ID: "n" + string(rune('0'+i%10)), Text: "t"}
		current.Children = []*Node{child}
		current = child
	}
	current.ID = "leaf"

	updated := UpdateNodeText(root, "leaf", "bottom")
	if Find(updated, "leaf").Text != "bottom" {
		t.Error("deep leaf not updated")
	}
}

func TestExportOutline(t *testing.T) {
	outline := ExportOutline(testTree())

	want := `- Jubilación
  - Requisitos
    - Edad ordinaria
    - Periodo mínimo de cotización
  - Base reguladora
`
	if outline != want {
		t.Errorf("outline =\n%s\nwant\n%s", outline, want)
	}
}

func TestExportOutline_ReflectsUpdate(t *testing.T) {
	tree := testTree()
	before := ExportOutline(tree)
	after := ExportOutline(UpdateNodeText(tree, "n1a", "67 años"))

	if !strings.Contains(after, "    - 67 años\n") {
		t.Errorf("updated text not at original depth:\n%s", after)
	}
	if strings.Count(before, "\n") != strings.Count(after, "\n") {
		t.Error("outline length changed")
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	tree := testTree()
	out, err := ExportJSON(tree)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	parsed, err := Parse(out)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if !reflect.DeepEqual(tree, parsed) {
		t.Error("round trip changed the tree")
	}
}

func TestExportPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportPNG(testTree(), &buf); err != nil {
		t.Fatalf("export png: %v", err)
	}
	// PNG signature.
	if !bytes.HasPrefix(buf.Bytes(), []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("output is not a PNG")
	}
}

func TestExportPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportPDF(testTree(), &buf); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{
			"id": "root", "text": "Ingreso Mínimo Vital",
			"children": [{"id": "a", "text": "Requisitos", "children": []}]
		}`)},
	)

	root, err := Generate(context.Background(), mock, "Ingreso Mínimo Vital")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Text != "Ingreso Mínimo Vital" {
		t.Errorf("root text = %q", root.Text)
	}

	req := mock.Calls[0]
	if req.Schema != Schema {
		t.Error("expected mind-map schema on request")
	}
	if !strings.Contains(req.Messages[0].Content, "Ingreso Mínimo Vital") {
		t.Errorf("topic missing from prompt: %q", req.Messages[0].Content)
	}
}

func TestGenerate_MalformedResponse(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"text": "sin id"}`)},
	)

	_, err := Generate(context.Background(), mock, "Jubilación")
	if err == nil {
		t.Fatal("expected error")
	}
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %T", err)
	}
}
