package pptx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Save writes the presentation to path. The file is created exclusively, so
// an existing file is never overwritten, and it is removed again if writing
// fails part-way.
func (p *Presentation) Save(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := p.Write(f)
	closeErr := f.Close()

	if writeErr != nil || closeErr != nil {
		os.Remove(path)
		if writeErr != nil {
			return writeErr
		}
		return closeErr
	}
	return nil
}

// Write writes the presentation package to w.
func (p *Presentation) Write(w io.Writer) error {
	if len(p.slides) == 0 {
		return errors.New("presentation has no slides")
	}

	pw := &packageWriter{p: p, zw: zip.NewWriter(w)}
	if err := pw.write(); err != nil {
		return err
	}
	return pw.zw.Close()
}

// packageWriter serializes one presentation into an OOXML zip package.
type packageWriter struct {
	p         *Presentation
	zw        *zip.Writer
	thumbnail []byte
}

func (w *packageWriter) write() error {
	thumb, err := makeThumbnail(w.p.slides[0].picture.Path)
	if err != nil {
		return err
	}
	w.thumbnail = thumb

	steps := []func() error{
		w.writeContentTypes,
		w.writeRootRels,
		w.writeAppProperties,
		w.writeCoreProperties,
		w.writeThumbnail,
		w.writePresentation,
		w.writePresentationRels,
		func() error { return writeRawXMLToZip(w.zw, "ppt/presProps.xml", presPropsXML) },
		func() error { return writeRawXMLToZip(w.zw, "ppt/viewProps.xml", viewPropsXML) },
		func() error { return writeRawXMLToZip(w.zw, "ppt/tableStyles.xml", tableStylesXML) },
		w.writeSlideMaster,
		w.writeSlideLayout,
		func() error { return writeRawXMLToZip(w.zw, "ppt/theme/theme1.xml", themeXML) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	for i, slide := range w.p.slides {
		if err := w.writeSlide(slide, i+1); err != nil {
			return err
		}
		if err := w.writeSlideRels(slide, i+1); err != nil {
			return err
		}
	}
	return w.writeMedia()
}

func (w *packageWriter) writeContentTypes() error {
	ct := xmlContentTypes{
		Xmlns: nsContentTypes,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []xmlOverride{
			{PartName: "/ppt/presentation.xml", ContentType: ctPresentation},
			{PartName: "/ppt/presProps.xml", ContentType: ctPresProps},
			{PartName: "/ppt/viewProps.xml", ContentType: ctViewProps},
			{PartName: "/ppt/tableStyles.xml", ContentType: ctTableStyles},
			{PartName: "/ppt/slideMasters/slideMaster1.xml", ContentType: ctSlideMaster},
			{PartName: "/ppt/slideLayouts/slideLayout1.xml", ContentType: ctSlideLayout},
			{PartName: "/ppt/theme/theme1.xml", ContentType: ctTheme},
			{PartName: "/docProps/core.xml", ContentType: ctCoreProps},
			{PartName: "/docProps/app.xml", ContentType: ctExtProps},
		},
	}

	for i := range w.p.slides {
		ct.Overrides = append(ct.Overrides, xmlOverride{
			PartName:    fmt.Sprintf("/ppt/slides/slide%d.xml", i+1),
			ContentType: ctSlide,
		})
	}

	// The thumbnail is always jpeg.
	seen := map[string]bool{"jpeg": true}
	ct.Defaults = append(ct.Defaults, xmlDefault{Extension: "jpeg", ContentType: contentTypeFor("jpeg")})
	for _, slide := range w.p.slides {
		ext := slide.picture.ext
		if !seen[ext] {
			seen[ext] = true
			ct.Defaults = append(ct.Defaults, xmlDefault{Extension: ext, ContentType: contentTypeFor(ext)})
		}
	}

	return writeXMLToZip(w.zw, "[Content_Types].xml", ct)
}

func (w *packageWriter) writeRootRels() error {
	rels := xmlRelationships{Xmlns: nsRelationships}
	rels.add(relTypeOfficeDoc, "ppt/presentation.xml")
	rels.add(relTypeCoreProps, "docProps/core.xml")
	rels.add(relTypeExtProps, "docProps/app.xml")
	rels.add(relTypeThumbnail, "docProps/thumbnail.jpeg")
	return writeXMLToZip(w.zw, "_rels/.rels", rels)
}

func (w *packageWriter) writeAppProperties() error {
	content := xmlDecl + fmt.Sprintf(`<Properties xmlns="%s" xmlns:vt="%s">`+
		`<Application>pdf2pptx</Application>`+
		`<PresentationFormat>Custom</PresentationFormat>`+
		`<Slides>%d</Slides>`+
		`</Properties>`, nsExtProperties, nsDocPropsVTypes, len(w.p.slides))
	return writeRawXMLToZip(w.zw, "docProps/app.xml", content)
}

func (w *packageWriter) writeCoreProperties() error {
	props := w.p.Properties
	content := xmlDecl + fmt.Sprintf(`<cp:coreProperties xmlns:cp="%s" xmlns:dc="%s" xmlns:dcterms="%s" xmlns:xsi="%s">`+
		`<dc:title>%s</dc:title>`+
		`<dc:subject>%s</dc:subject>`+
		`<dc:creator>%s</dc:creator>`+
		`<dc:description>%s</dc:description>`+
		`<cp:lastModifiedBy>pdf2pptx</cp:lastModifiedBy>`+
		`<cp:revision>1</cp:revision>`+
		`<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`+
		`<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`+
		`</cp:coreProperties>`,
		nsCoreProperties, nsDC, nsDCTerms, nsXSI,
		xmlEscape(props.Title),
		xmlEscape(props.Subject),
		xmlEscape(props.Creator),
		xmlEscape(props.Description),
		props.Created.UTC().Format("2006-01-02T15:04:05Z"),
		props.Modified.UTC().Format("2006-01-02T15:04:05Z"),
	)
	return writeRawXMLToZip(w.zw, "docProps/core.xml", content)
}

func (w *packageWriter) writeThumbnail() error {
	fw, err := w.zw.CreateHeader(&zip.FileHeader{Name: "docProps/thumbnail.jpeg", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("failed to create thumbnail in zip: %w", err)
	}
	_, err = fw.Write(w.thumbnail)
	return err
}

func (w *packageWriter) writePresentation() error {
	var ids strings.Builder
	for i := range w.p.slides {
		// rId1 is the slide master; slides follow in order.
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="rId%d"/>`, firstSlideID+i, i+2)
	}
	content := xmlDecl + fmt.Sprintf(`<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">`+
		`<p:sldMasterIdLst><p:sldMasterId id="%d" r:id="rId1"/></p:sldMasterIdLst>`+
		`<p:sldIdLst>%s</p:sldIdLst>`+
		`<p:sldSz cx="%d" cy="%d"/>`+
		`<p:notesSz cx="6858000" cy="9144000"/>`+
		`</p:presentation>`,
		nsDrawingML, nsOfficeDocRels, nsPresentationML,
		firstMasterID, ids.String(), w.p.slideWidth, w.p.slideHeight)
	return writeRawXMLToZip(w.zw, "ppt/presentation.xml", content)
}

func (w *packageWriter) writePresentationRels() error {
	rels := xmlRelationships{Xmlns: nsRelationships}
	rels.add(relTypeSlideMaster, "slideMasters/slideMaster1.xml")
	for i := range w.p.slides {
		rels.add(relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
	}
	rels.add(relTypePresProps, "presProps.xml")
	rels.add(relTypeViewProps, "viewProps.xml")
	rels.add(relTypeTableStyles, "tableStyles.xml")
	rels.add(relTypeTheme, "theme/theme1.xml")
	return writeXMLToZip(w.zw, "ppt/_rels/presentation.xml.rels", rels)
}

func (w *packageWriter) writeSlideMaster() error {
	if err := writeRawXMLToZip(w.zw, "ppt/slideMasters/slideMaster1.xml", slideMasterXML); err != nil {
		return err
	}
	rels := xmlRelationships{Xmlns: nsRelationships}
	rels.add(relTypeSlideLayout, "../slideLayouts/slideLayout1.xml")
	rels.add(relTypeTheme, "../theme/theme1.xml")
	return writeXMLToZip(w.zw, "ppt/slideMasters/_rels/slideMaster1.xml.rels", rels)
}

func (w *packageWriter) writeSlideLayout() error {
	if err := writeRawXMLToZip(w.zw, "ppt/slideLayouts/slideLayout1.xml", slideLayoutXML); err != nil {
		return err
	}
	rels := xmlRelationships{Xmlns: nsRelationships}
	rels.add(relTypeSlideMaster, "../slideMasters/slideMaster1.xml")
	return writeXMLToZip(w.zw, "ppt/slideLayouts/_rels/slideLayout1.xml.rels", rels)
}

func (w *packageWriter) writeSlide(slide *Slide, slideNum int) error {
	pic := slide.picture
	content := xmlDecl + fmt.Sprintf(`<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`+
		`<p:cSld><p:spTree>%s`+
		`<p:pic>`+
		`<p:nvPicPr><p:cNvPr id="2" name="Picture %d"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
		`</p:pic>`+
		`</p:spTree></p:cSld>`+
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`+
		`</p:sld>`,
		nsDrawingML, nsOfficeDocRels, nsPresentationML, emptyGroupShape,
		slideNum, pic.OffsetX, pic.OffsetY, pic.Width, pic.Height)
	return writeRawXMLToZip(w.zw, fmt.Sprintf("ppt/slides/slide%d.xml", slideNum), content)
}

func (w *packageWriter) writeSlideRels(slide *Slide, slideNum int) error {
	rels := xmlRelationships{Xmlns: nsRelationships}
	rels.add(relTypeSlideLayout, "../slideLayouts/slideLayout1.xml")
	rels.add(relTypeImage, fmt.Sprintf("../media/image%d.%s", slideNum, slide.picture.ext))
	return writeXMLToZip(w.zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum), rels)
}

// writeMedia streams every picture into the package. Images are already
// compressed, so they are stored rather than deflated.
func (w *packageWriter) writeMedia() error {
	for i, slide := range w.p.slides {
		pic := slide.picture
		name := fmt.Sprintf("ppt/media/image%d.%s", i+1, pic.ext)
		fw, err := w.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			return fmt.Errorf("failed to create %s in zip: %w", name, err)
		}
		if err := copyFile(fw, pic.Path); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(dst io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("failed to copy image %s: %w", path, err)
	}
	return nil
}
