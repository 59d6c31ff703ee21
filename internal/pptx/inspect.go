package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// Summary describes a .pptx package as read back from disk.
type Summary struct {
	Path         string         `yaml:"path"`
	Title        string         `yaml:"title,omitempty"`
	SlideWidth   int64          `yaml:"slide_width_emu"`
	SlideHeight  int64          `yaml:"slide_height_emu"`
	WidthInches  float64        `yaml:"slide_width_in"`
	HeightInches float64        `yaml:"slide_height_in"`
	Slides       []SlideSummary `yaml:"slides"`
}

// SlideSummary lists the pictures found on one slide.
type SlideSummary struct {
	Number   int              `yaml:"number"`
	Part     string           `yaml:"part"`
	Pictures []PictureSummary `yaml:"pictures"`
}

// PictureSummary is one p:pic element with its resolved media part.
type PictureSummary struct {
	Media  string `yaml:"media"`
	X      int64  `yaml:"x"`
	Y      int64  `yaml:"y"`
	Width  int64  `yaml:"width"`
	Height int64  `yaml:"height"`
}

// SlideCount returns the number of slides.
func (s Summary) SlideCount() int { return len(s.Slides) }

// FullBleed reports whether every slide holds exactly one picture covering
// the whole canvas.
func (s Summary) FullBleed() bool {
	for _, sl := range s.Slides {
		if len(sl.Pictures) != 1 {
			return false
		}
		p := sl.Pictures[0]
		if p.X != 0 || p.Y != 0 || p.Width != s.SlideWidth || p.Height != s.SlideHeight {
			return false
		}
	}
	return true
}

type xmlPresentation struct {
	SldIDs []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
	SldSz struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

type xmlSlide struct {
	Pics []struct {
		Blip struct {
			Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
		} `xml:"blipFill>blip"`
		Off struct {
			X int64 `xml:"x,attr"`
			Y int64 `xml:"y,attr"`
		} `xml:"spPr>xfrm>off"`
		Ext struct {
			Cx int64 `xml:"cx,attr"`
			Cy int64 `xml:"cy,attr"`
		} `xml:"spPr>xfrm>ext"`
	} `xml:"cSld>spTree>pic"`
}

type xmlCore struct {
	Title string `xml:"title"`
}

// Inspect opens the .pptx at p and summarizes its canvas and slides in
// presentation order.
func Inspect(p string) (Summary, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open zip: %w", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var pres xmlPresentation
	if err := decodePart(files, "ppt/presentation.xml", &pres); err != nil {
		return Summary{}, err
	}
	presRels, err := readRels(files, "ppt/presentation.xml")
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Path:         p,
		SlideWidth:   pres.SldSz.Cx,
		SlideHeight:  pres.SldSz.Cy,
		WidthInches:  EMUToInch(pres.SldSz.Cx),
		HeightInches: EMUToInch(pres.SldSz.Cy),
	}

	var core xmlCore
	if err := decodePart(files, "docProps/core.xml", &core); err == nil {
		sum.Title = core.Title
	}

	for i, id := range pres.SldIDs {
		target, ok := presRels[id.RID]
		if !ok {
			return Summary{}, fmt.Errorf("slide %d: relationship %s not found", i+1, id.RID)
		}
		slidePart := path.Join("ppt", target)

		var sld xmlSlide
		if err := decodePart(files, slidePart, &sld); err != nil {
			return Summary{}, err
		}
		slideRels, err := readRels(files, slidePart)
		if err != nil {
			return Summary{}, err
		}

		ss := SlideSummary{Number: i + 1, Part: slidePart}
		for _, pic := range sld.Pics {
			media := slideRels[pic.Blip.Embed]
			if media != "" {
				media = path.Join(path.Dir(slidePart), media)
			}
			ss.Pictures = append(ss.Pictures, PictureSummary{
				Media:  media,
				X:      pic.Off.X,
				Y:      pic.Off.Y,
				Width:  pic.Ext.Cx,
				Height: pic.Ext.Cy,
			})
		}
		sum.Slides = append(sum.Slides, ss)
	}
	return sum, nil
}

func decodePart(files map[string]*zip.File, name string, v interface{}) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("part %s not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// readRels returns the relationship id -> target map of a part. Missing
// relationship parts yield an empty map.
func readRels(files map[string]*zip.File, part string) (map[string]string, error) {
	relsName := path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
	if _, ok := files[relsName]; !ok {
		return map[string]string{}, nil
	}
	var rels xmlRelationships
	if err := decodePart(files, relsName, &rels); err != nil {
		return nil, err
	}
	m := make(map[string]string, len(rels.Relationships))
	for _, r := range rels.Relationships {
		m[r.ID] = strings.TrimPrefix(r.Target, "/")
	}
	return m, nil
}
