package types

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func sampleDocument() Document {
	return Document{
		ID:       "doc_1",
		Language: LangEnglish,
		Personal: PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
		Summary: "Analyst of engines.",
		Experience: []Experience{
			{ID: "exp_1", Position: "Analyst", Company: "Babbage & Co", Achievements: []string{"Wrote notes"}},
			{ID: "exp_2", Position: "Translator", Company: "Taylor's Memoirs"},
		},
		Skills: []Skill{{ID: "sk_1", Name: "Mathematics", Level: "Expert"}},
	}
}
