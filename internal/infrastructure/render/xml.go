package render

import (
	"bytes"

	"github.com/beevik/etree"
)

// renderXML produce <items><item>...</item></items>. Cada clave es un elemento;
// las referencias anidan elementos y las listas repiten la etiqueta.
func renderXML(records []map[string]any) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("items")
	for _, rec := range records {
		item := root.CreateElement("item")
		for _, k := range columns(rec) {
			appendValue(item, k, rec[k])
		}
	}
	doc.Indent(2)

	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func appendValue(parent *etree.Element, tag string, v any) {
	switch x := v.(type) {
	case map[string]any:
		el := parent.CreateElement(tag)
		for _, k := range columns(x) {
			appendValue(el, k, x[k])
		}
	case []any:
		for _, it := range x {
			appendValue(parent, tag, it)
		}
	case []string:
		for _, it := range x {
			parent.CreateElement(tag).SetText(it)
		}
	default:
		parent.CreateElement(tag).SetText(cell(v, "|"))
	}
}
