package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("parsing.json", "build-resume")
	require.NoError(t, err)
	assert.Contains(t, prompt, "You MUST output ONLY valid JSON")
	assert.Contains(t, prompt, "{{.SchemaExample}}")
	assert.Contains(t, prompt, "{{.PDFText}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("parsing.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("parsing.json", "build-resume")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestFormat_ValuesAreNotExpanded(t *testing.T) {
	template := "A={{.A}} B={{.B}}"
	data := map[string]string{
		"A": "{{.B}}",
		"B": "b",
	}

	assert.Equal(t, "A={{.B}} B=b", Format(template, data))
}

func TestRender(t *testing.T) {
	ClearCache()

	out, err := Render("parsing.json", "build-resume", map[string]string{
		"SchemaExample": `{"resumeTitle": ""}`,
		"PDFText":       "Jane Doe\nGo developer",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `{"resumeTitle": ""}`)
	assert.Contains(t, out, "Jane Doe\nGo developer")
	assert.NotContains(t, out, "{{.")

	_, err = Render("parsing.json", "missing", nil)
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("parsing.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "build-resume")
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get("parsing.json", "build-resume")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("parsing.json", "build-resume")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
