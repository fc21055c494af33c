package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	name string
}

func (f *fakeProvider) Name() string              { return f.name }
func (f *fakeProvider) AvailableModels() []string { return []string{f.name + "-model"} }
func (f *fakeProvider) DefaultModel() string      { return f.name + "-model" }
func (f *fakeProvider) IsConfigured() bool        { return true }
func (f *fakeProvider) Complete(context.Context, Request, string) (*Response, error) {
	return &Response{Text: "ok", Model: f.name + "-model"}, nil
}

func TestRouter_GetProvider(t *testing.T) {
	r := NewRouter("openai")
	r.RegisterProvider(&fakeProvider{name: "openai"})
	r.RegisterProvider(&fakeProvider{name: "ollama"})

	t.Run("by name", func(t *testing.T) {
		p, err := r.GetProvider("ollama")
		assert.NoError(t, err)
		assert.Equal(t, "ollama", p.Name())
	})

	t.Run("empty name resolves the default", func(t *testing.T) {
		p, err := r.GetProvider("")
		assert.NoError(t, err)
		assert.Equal(t, "openai", p.Name())
	})

	t.Run("unknown name errors", func(t *testing.T) {
		_, err := r.GetProvider("missing")
		assert.Error(t, err)
	})
}

func TestRouter_GetProvidersInfo(t *testing.T) {
	r := NewRouter("ollama")
	r.RegisterProvider(&fakeProvider{name: "ollama"})

	info := r.GetProvidersInfo()
	assert.Len(t, info, 1)
	assert.Equal(t, "ollama", info[0].Name)
	assert.True(t, info[0].Default)
	assert.True(t, info[0].Configured)
}
