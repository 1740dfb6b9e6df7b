package annotate

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Info describes one highlight annotation found in a document.
type Info struct {
	Page     int        `json:"page"` // 1-based
	Rect     [4]float64 `json:"rect"`
	Author   string     `json:"author,omitempty"`
	Contents string     `json:"contents,omitempty"`
	Name     string     `json:"name,omitempty"`
	// QuadPoints as stored, nil when absent.
	QuadPoints []float64 `json:"quad_points,omitempty"`
}

// Read lists the highlight annotations of data in page order.
func Read(data []byte) ([]Info, error) {
	ctx, err := readContext(data)
	if err != nil {
		return nil, err
	}

	var out []Info
	for p := 1; p <= ctx.PageCount; p++ {
		pageDict, _, _, err := ctx.PageDict(p, false)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p, err)
		}
		o, found := pageDict.Find("Annots")
		if !found {
			continue
		}
		annots, err := ctx.DereferenceArray(o)
		if err != nil {
			return nil, fmt.Errorf("page %d Annots: %w", p, err)
		}
		for _, a := range annots {
			d, err := ctx.DereferenceDict(a)
			if err != nil {
				return nil, fmt.Errorf("page %d annotation: %w", p, err)
			}
			if d == nil {
				continue
			}
			if st := d.NameEntry("Subtype"); st == nil || *st != "Highlight" {
				continue
			}
			info, err := readInfo(ctx.DereferenceArray, d)
			if err != nil {
				return nil, fmt.Errorf("page %d annotation: %w", p, err)
			}
			info.Page = p
			out = append(out, info)
		}
	}
	return out, nil
}

func readInfo(derefArray func(types.Object) (types.Array, error), d types.Dict) (Info, error) {
	var info Info
	rect, err := derefArray(d["Rect"])
	if err != nil {
		return info, fmt.Errorf("Rect: %w", err)
	}
	if len(rect) != 4 {
		return info, fmt.Errorf("Rect has %d entries", len(rect))
	}
	for i, o := range rect {
		if info.Rect[i], err = number(o); err != nil {
			return info, fmt.Errorf("Rect[%d]: %w", i, err)
		}
	}
	if o, found := d.Find("QuadPoints"); found {
		quads, err := derefArray(o)
		if err != nil {
			return info, fmt.Errorf("QuadPoints: %w", err)
		}
		info.QuadPoints = make([]float64, len(quads))
		for i, q := range quads {
			if info.QuadPoints[i], err = number(q); err != nil {
				return info, fmt.Errorf("QuadPoints[%d]: %w", i, err)
			}
		}
	}
	if info.Author, err = decodeText(d["T"]); err != nil {
		return info, fmt.Errorf("T: %w", err)
	}
	if info.Contents, err = decodeText(d["Contents"]); err != nil {
		return info, fmt.Errorf("Contents: %w", err)
	}
	if info.Name, err = decodeText(d["NM"]); err != nil {
		return info, fmt.Errorf("NM: %w", err)
	}
	return info, nil
}
