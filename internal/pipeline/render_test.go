package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/pdfinfo"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/templates"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mandatoryOnly() types.Document {
	return types.Document{
		Personal: types.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
	}
}

func withExperience(bullets int) types.Document {
	doc := mandatoryOnly()
	doc.Summary = "Analyst of engines and author of the first published algorithm."
	achievements := make([]string, bullets)
	for i := range achievements {
		achievements[i] = fmt.Sprintf("Annotated note %c with worked examples for the engine", 'A'+rune(i%26))
	}
	doc.Experience = []types.Experience{
		{ID: "e1", Position: "Analyst", Company: "Analytical Engine", StartDate: "1842-01", EndDate: "1843-09", Achievements: achievements},
	}
	doc.Skills = []types.Skill{{ID: "s1", Name: "Mathematics", Level: "Expert"}}
	return doc
}

func lowDPI() Option {
	return WithBackend(rendering.NewRasterBackend(rendering.NativeRasterizer{}, rendering.WithDPI(36)))
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := New()

	res, err := r.Render(context.Background(), mandatoryOnly(), "does-not-exist")
	assert.Nil(t, res)
	var ue *templates.UnknownTemplateError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "does-not-exist", ue.ID)
	assert.Equal(t, KindUnknownTemplate, Kind(err))
}

func TestRender_UnknownTemplateBeforeValidation(t *testing.T) {
	_, err := New().Render(context.Background(), types.Document{}, "does-not-exist")
	assert.Equal(t, KindUnknownTemplate, Kind(err))
}

func TestRender_LetterTemplateRejectsCV(t *testing.T) {
	_, err := New().Render(context.Background(), mandatoryOnly(), "letter-classic")
	assert.Equal(t, KindUnknownTemplate, Kind(err))
}

func TestRender_ValidationError(t *testing.T) {
	doc := mandatoryOnly()
	doc.Personal.LastName = ""

	res, err := New().Render(context.Background(), doc, "classic")
	assert.Nil(t, res)
	var ve *schemas.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, KindValidation, Kind(err))
	assert.Equal(t, PublicErrorMessage, PublicMessage(err))
}

func TestRender_BlankIdentityRejected(t *testing.T) {
	doc := types.Document{Personal: types.PersonalInfo{FirstName: "   ", LastName: "\t", Phone: "  "}}

	res, err := New().Render(context.Background(), doc, "classic")
	assert.Nil(t, res)
	assert.Equal(t, KindValidation, Kind(err))
}

func TestRender_MandatoryOnlyIsOnePageWithIdentity(t *testing.T) {
	r := New()
	for _, def := range r.Registry.List() {
		if def.Kind != types.KindCV {
			continue
		}
		t.Run(def.ID, func(t *testing.T) {
			res, err := r.Render(context.Background(), mandatoryOnly(), def.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, res.Pages)
			assert.Equal(t, []int{0}, res.Layout.Sections())
			assert.Equal(t, rendering.PrimitiveName, res.Backend)

			info, err := pdfinfo.Inspect(res.PDF)
			require.NoError(t, err)
			assert.Equal(t, 1, info.Pages)
			assert.True(t, info.Contains("Ada Lovelace"))
		})
	}
}

func TestRender_UsesStoredTemplate(t *testing.T) {
	doc := mandatoryOnly()
	doc.TemplateID = "compact"
	res, err := New().Render(context.Background(), doc, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
}

func TestLayout_IsIdempotent(t *testing.T) {
	r := New()
	doc := withExperience(40)

	first, err := r.Layout(context.Background(), doc, "modern")
	require.NoError(t, err)
	second, err := r.Layout(context.Background(), doc, "modern")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_BackendsAgreeOnPageCount(t *testing.T) {
	r := New(lowDPI())
	for _, n := range []int{0, 12, 90} {
		t.Run(fmt.Sprintf("%d_achievements", n), func(t *testing.T) {
			doc := withExperience(n)
			prim, err := r.Run(context.Background(), Job{Document: &doc, TemplateID: "classic", Backend: rendering.PrimitiveName})
			require.NoError(t, err)
			raster, err := r.Run(context.Background(), Job{Document: &doc, TemplateID: "classic", Backend: rendering.RasterName})
			require.NoError(t, err)

			assert.Equal(t, prim.Pages, raster.Pages)
			assert.Equal(t, prim.Layout, raster.Layout)
		})
	}
}

func TestRender_ExperienceNeverRepeatsHeading(t *testing.T) {
	res, err := New().Render(context.Background(), withExperience(90), "classic")
	require.NoError(t, err)
	require.Greater(t, res.Pages, 1)

	headings := 0
	for _, b := range res.Layout.Blocks() {
		if b.Kind == layout.BlockHeading && b.SectionKind == string(templates.SectionExperience) {
			headings++
		}
	}
	assert.Equal(t, 1, headings)
}

func TestRenderLetter(t *testing.T) {
	letter := types.Letter{
		Sender:     types.Party{Name: "Ada Lovelace", Email: "ada@example.com"},
		Recipient:  types.Party{Name: "Charles Babbage", Company: "Analytical Engine"},
		Subject:    "Translation of Menabrea's memoir",
		Paragraphs: []string{"I enclose my notes.", "They run somewhat longer than the memoir itself."},
		Closing:    "Yours sincerely",
		Signature:  types.Signature{Name: "A. A. L."},
	}

	res, err := New().RenderLetter(context.Background(), letter, "letter-classic")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)

	_, err = New().RenderLetter(context.Background(), letter, "classic")
	assert.Equal(t, KindUnknownTemplate, Kind(err))

	letter.Sender.Name = ""
	_, err = New().RenderLetter(context.Background(), letter, "letter-classic")
	assert.Equal(t, KindValidation, Kind(err))
}

type slowBackend struct{ delay time.Duration }

func (slowBackend) Name() string { return "slow" }

func (s slowBackend) Render(context.Context, *layout.Document) (*rendering.Output, error) {
	time.Sleep(s.delay)
	return &rendering.Output{PDF: []byte("%PDF-late"), Pages: 1}, nil
}

type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }

func (failingBackend) Render(context.Context, *layout.Document) (*rendering.Output, error) {
	return nil, &rendering.BackendError{Backend: "failing", Message: "disk full"}
}

func TestRender_Timeout(t *testing.T) {
	r := New(WithBackend(slowBackend{delay: 500 * time.Millisecond}), WithDefaultBackend("slow"), WithTimeout(20*time.Millisecond))

	res, err := r.Render(context.Background(), mandatoryOnly(), "classic")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, KindTimeout, Kind(err))
}

func TestRender_CallerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New().Render(ctx, mandatoryOnly(), "classic")
	assert.Nil(t, res)
	assert.Equal(t, KindTimeout, Kind(err))
}

func TestRender_BackendFailure(t *testing.T) {
	r := New(WithBackend(failingBackend{}), WithDefaultBackend("failing"))

	res, err := r.Render(context.Background(), mandatoryOnly(), "classic")
	assert.Nil(t, res)
	assert.Equal(t, KindBackend, Kind(err))

	_, err = r.Run(context.Background(), Job{Document: &types.Document{}, TemplateID: "classic", Backend: "nope"})
	assert.Equal(t, KindBackend, Kind(err))
}

func TestRender_TextOutsideCP1252(t *testing.T) {
	doc := mandatoryOnly()
	doc.Personal.FirstName = "Łukasz"
	doc.Personal.LastName = "Wiśniewski"
	doc.Summary = "Speaks Polish and Ελληνικά"

	res, err := New().Render(context.Background(), doc, "classic")
	require.NoError(t, err)
	assert.Contains(t, string(res.PDF), "/Identity-H")

	info, err := pdfinfo.Inspect(res.PDF)
	require.NoError(t, err)
	assert.True(t, info.Contains("ukasz"))
	assert.False(t, info.Contains(".ukasz"), "characters must not be replaced")
}

func TestRender_UnsupportedGlyph(t *testing.T) {
	doc := mandatoryOnly()
	doc.Summary = "Speaks 日本語 fluently"

	for _, r := range []*Renderer{New(), New(lowDPI())} {
		res, err := r.Render(context.Background(), doc, "classic")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, rendering.ErrUnsupportedGlyph)
		assert.Equal(t, KindBackend, Kind(err))
		assert.Contains(t, err.Error(), "U+65E5")
	}
}

func TestRun_ReportsLayoutOnce(t *testing.T) {
	var reported []*layout.Document
	doc := withExperience(3)

	res, err := New().Run(context.Background(), Job{
		Document:   &doc,
		TemplateID: "classic",
		OnLayout:   func(g *layout.Document) { reported = append(reported, g) },
	})
	require.NoError(t, err)
	require.Len(t, reported, 1)
	assert.Same(t, res.Layout, reported[0])
	assert.Equal(t, res.Pages, reported[0].PageCount())

	reported = nil
	_, err = New().Run(context.Background(), Job{
		Document:   &doc,
		TemplateID: "nope",
		OnLayout:   func(g *layout.Document) { reported = append(reported, g) },
	})
	require.Error(t, err)
	assert.Empty(t, reported)
}

func tallPhoto(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 100))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRender_LayoutFailure(t *testing.T) {
	doc := mandatoryOnly()
	// At the modern photo width this image is far taller than an A4 page.
	doc.Personal.Photo = tallPhoto(t)

	res, err := New().Render(context.Background(), doc, "modern")
	assert.Nil(t, res)
	var le *layout.LayoutError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 0, le.BlockIndex)
	assert.Equal(t, string(templates.SectionIdentity), le.SectionKind)
	assert.Equal(t, KindLayout, Kind(err))
	assert.Equal(t, PublicErrorMessage, PublicMessage(err))
}

func TestKindAndPublicMessage(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, "", PublicMessage(nil))
	assert.Equal(t, KindInternal, Kind(errors.New("boom")))
	assert.Equal(t, PublicErrorMessage, PublicMessage(errors.New("boom")))
}

func TestRenderBatch(t *testing.T) {
	r := New()
	good, bad := withExperience(5), mandatoryOnly()
	bad.Personal.Email = "not-an-email"

	jobs := []Job{
		{ID: "a", Document: &good, TemplateID: "classic"},
		{ID: "b", Document: &bad, TemplateID: "classic"},
		{ID: "c", Document: &good, TemplateID: "nope"},
		{ID: "d", Document: &good, TemplateID: "modern"},
	}
	results, err := r.RenderBatch(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "a", results[0].ID)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, KindValidation, Kind(results[1].Err))
	assert.Equal(t, KindUnknownTemplate, Kind(results[2].Err))
	require.NoError(t, results[3].Err)
	assert.Equal(t, 1, results[3].Result.Pages)
}
