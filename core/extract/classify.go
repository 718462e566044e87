package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/gaurav-prasanna/coursegrab/core/platform"
)

const defaultVideoExt = "mp4"

// Classify inspects the currently rendered lesson and returns its kind,
// resources and file name. The snapshot supplies the chapter titles and the
// course-wide lesson count; the lesson itself is always re-read from doc.
func Classify(doc *goquery.Document, p *platform.Platform, snap *core.Snapshot) (*core.Lesson, error) {
	active := doc.Find(p.Active).First()
	if active.Length() == 0 {
		return nil, core.Mismatch("active lesson", p.Active)
	}
	position := doc.Find(p.Lesson).IndexOfSelection(active) + 1
	if position < 1 {
		return nil, core.Mismatch("active lesson in lesson list", p.Lesson)
	}

	ref, err := lessonRef(active, position, doc.Find(p.Chapter), p)
	if err != nil {
		return nil, err
	}
	if ref.Chapter >= len(snap.Chapters) {
		return nil, fmt.Errorf("%w: chapter %d is not in the captured list of %d",
			core.ErrStructuralMismatch, ref.Chapter, len(snap.Chapters))
	}

	name := snap.NameFor(ref)
	lesson := &core.Lesson{
		Ref:      ref,
		Name:     name,
		FileName: name.String(),
	}

	switch {
	case present(doc, p.Quiz):
		lesson.Kind = core.KindQuiz
		lesson.CaptureSelector = p.Capture()

	case present(doc, p.Media):
		res, err := mediaResource(doc.Find(p.Media).First(), snap.URL)
		if err != nil {
			return nil, err
		}
		lesson.Kind = core.KindVideo
		lesson.Resources = []core.Resource{res}

	case present(doc, p.Download):
		resources, err := downloadResources(doc.Find(p.Download), p, snap.URL)
		if err != nil {
			return nil, err
		}
		lesson.Kind = core.KindAttachment
		lesson.Resources = resources

	default:
		return nil, fmt.Errorf("%w: no quiz, media or download markers on %q",
			core.ErrUnknownLessonKind, lesson.FileName)
	}

	return lesson, nil
}

func present(doc *goquery.Document, selector string) bool {
	return selector != "" && doc.Find(selector).Length() > 0
}

// mediaResource reads the source of a media element, falling back to its
// first <source> child.
func mediaResource(media *goquery.Selection, pageURL string) (core.Resource, error) {
	src, _ := media.Attr("src")
	if src == "" {
		src, _ = media.Find("source[src]").First().Attr("src")
	}
	resolved := resolveURL(src, pageURL)
	if resolved == "" {
		return core.Resource{}, core.Mismatch("media source", "src")
	}

	ext := extFromURL(resolved)
	if ext == "" {
		ext = defaultVideoExt
	}
	return core.Resource{URL: resolved, Ext: ext}, nil
}

// downloadResources yields one resource per download anchor. The extension
// comes from the anchor's declared origin file name, then from the URL.
func downloadResources(anchors *goquery.Selection, p *platform.Platform, pageURL string) ([]core.Resource, error) {
	resources := make([]core.Resource, 0, anchors.Length())
	for i := range anchors.Nodes {
		a := anchors.Eq(i)
		href, _ := a.Attr("href")
		resolved := resolveURL(href, pageURL)
		if resolved == "" {
			return nil, core.Mismatch(fmt.Sprintf("href of download %d", i+1), p.Download)
		}

		var origin string
		if p.DownloadName != "" {
			origin, _ = a.Attr(p.DownloadName)
		}
		ext := extFromName(origin)
		if ext == "" {
			ext = extFromURL(resolved)
		}
		if ext == "" {
			return nil, core.Mismatch(fmt.Sprintf("file type of download %d", i+1), p.DownloadName)
		}

		resources = append(resources, core.Resource{URL: resolved, Ext: ext, OriginName: origin})
	}
	return resources, nil
}
