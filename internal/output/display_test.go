package output

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContent(t *testing.T) {
	tests := []struct {
		name      string
		content   Content
		kind      Kind
		text      string
		innerHTML string
	}{
		{
			name:      "empty",
			content:   Content{},
			kind:      KindEmpty,
			text:      "",
			innerHTML: "",
		},
		{
			name:      "text is escaped in innerHTML",
			content:   Text(`Error: <script>"x"</script> & co`),
			kind:      KindText,
			text:      `Error: <script>"x"</script> & co`,
			innerHTML: `Error: &lt;script&gt;"x"&lt;/script&gt; &amp; co`,
		},
		{
			name:      "html is inserted verbatim",
			content:   HTML(Trust("<b>ok</b>")),
			kind:      KindHTML,
			text:      "ok",
			innerHTML: "<b>ok</b>",
		},
		{
			name:      "nested markup text",
			content:   HTML(Trust("<table><tr><td>BTC</td><td>1</td></tr></table>")),
			kind:      KindHTML,
			text:      "BTC1",
			innerHTML: "<table><tr><td>BTC</td><td>1</td></tr></table>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.content.Kind())
			assert.Equal(t, tt.text, tt.content.TextContent())
			assert.Equal(t, tt.innerHTML, tt.content.InnerHTML())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "html", KindHTML.String())
	assert.Equal(t, "empty", KindEmpty.String())
}

func TestPanel(t *testing.T) {
	t.Run("last write wins", func(t *testing.T) {
		p := NewPanel()
		p.Show(Text("first"))
		p.Show(HTML(Trust("<i>second</i>")))

		assert.Equal(t, "<i>second</i>", p.InnerHTML())
		assert.Equal(t, "second", p.TextContent())
		assert.Equal(t, uint64(2), p.Writes())
	})

	t.Run("concurrent writers", func(t *testing.T) {
		p := NewPanel()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.Show(Text("x"))
				_ = p.TextContent()
			}()
		}
		wg.Wait()
		assert.Equal(t, uint64(50), p.Writes())
		assert.Equal(t, "x", p.TextContent())
	})
}

func TestTerminal(t *testing.T) {
	t.Run("text and markup", func(t *testing.T) {
		var buf bytes.Buffer
		term := NewTerminal(&buf, false)
		term.Show(Text("{\n  \"a\": 1\n}"))
		term.Show(HTML(Trust("<b>ok</b>")))

		assert.Equal(t, "{\n  \"a\": 1\n}\n<b>ok</b>\n", buf.String())
	})

	t.Run("strip html", func(t *testing.T) {
		var buf bytes.Buffer
		term := NewTerminal(&buf, true)
		term.Show(HTML(Trust("<p>paused</p>\n")))

		assert.Equal(t, "paused\n", buf.String())
	})
}
