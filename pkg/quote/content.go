package quote

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/philipparndt/cadquote/pkg/analysis"
)

// Header builds the leading text part: material, schema, instructions,
// optional metadata and the task prompt
func Header(prompt, material string, metadata *analysis.Metadata) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Material: %s\n", material)
	fmt.Fprintf(&b, "Instructions: Return JSON exactly matching this schema: %s. %s\n", OutputSchema, instructions)
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return "", fmt.Errorf("failed to encode metadata: %w", err)
		}
		b.WriteString("\nMetadata: ")
		b.Write(raw)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Prompt: %s", prompt)
	return b.String(), nil
}

// BuildContent composes the user message: the header followed by a
// "View: <label>" text part and an inline PNG for every rendered view.
// images and labels are paired by index.
func BuildContent(prompt, material string, metadata *analysis.Metadata, images, labels []string) ([]openai.ChatMessagePart, error) {
	if len(images) != len(labels) {
		return nil, fmt.Errorf("got %d images but %d view labels", len(images), len(labels))
	}

	header, err := Header(prompt, material, metadata)
	if err != nil {
		return nil, err
	}

	parts := make([]openai.ChatMessagePart, 0, 1+2*len(images))
	parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: header})

	for i, path := range images {
		uri, err := pngDataURI(path)
		if err != nil {
			return nil, err
		}
		parts = append(parts,
			openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: "View: " + labels[i]},
			openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: uri, Detail: openai.ImageURLDetailAuto},
			},
		)
	}
	return parts, nil
}

func pngDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read view image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
