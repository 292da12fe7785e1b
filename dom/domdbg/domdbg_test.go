package domdbg

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/npillmayer/restyle/dom"
	"github.com/npillmayer/restyle/dom/style/cssom"
	"github.com/npillmayer/restyle/engine"
	"github.com/npillmayer/restyle/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var selectors = []string{
	"div p", ".a em", "#main .b", "[lang=de] span", "section div.a p", "body *", "li:hover",
}

const page = `<html><body>
<section id="main">
  <div class="a"><p>x <em>y</em></p><p class="b"><span>z</span></p></div>
  <div lang="de"><span class="a">s</span><p><em>e</em></p></div>
</section>
<ul><li>1</li><li class="b">2</li></ul>
</body></html>`

func load(t *testing.T) (*dom.Document, map[*html.Node]tree.NodeID) {
	c, err := cssom.CompileSelectors(selectors)
	require.NoError(t, err)
	doc := c.NewDocument(engine.Options{Validate: engine.StrictValidator()})
	_, mapping, err := dom.ParseHTML(doc, strings.NewReader(page))
	require.NoError(t, err)
	doc.Recompute()
	return doc, mapping
}

func setAttr(h *html.Node, key, value string) {
	for i := range h.Attr {
		if h.Attr[i].Key == key {
			h.Attr[i].Val = value
			return
		}
	}
	h.Attr = append(h.Attr, html.Attribute{Key: key, Val: value})
}

func TestCrossCheck(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.dom")
	defer teardown()
	//
	doc, mapping := load(t)
	mm, err := CrossCheck(doc)
	require.NoError(t, err)
	assert.Empty(t, mm)
	var nodes []*html.Node
	for h := range mapping {
		nodes = append(nodes, h)
	}
	keys := []string{"class", "class", "id", "lang"}
	values := map[string][]string{
		"class": {"a", "b", "a b", ""},
		"id":    {"main", "other"},
		"lang":  {"de", "en"},
	}
	rnd := rand.New(rand.NewSource(7))
	for step := 0; step < 200; step++ {
		h := nodes[rnd.Intn(len(nodes))]
		key := keys[rnd.Intn(len(keys))]
		value := values[key][rnd.Intn(len(values[key]))]
		setAttr(h, key, value)
		require.NoError(t, doc.UpdateAttribute(mapping[h], key, value))
		if rnd.Intn(3) == 0 {
			doc.Recompute()
			mm, err := CrossCheck(doc)
			require.NoError(t, err)
			require.Empty(t, mm, "step %d", step)
		}
	}
}

func TestPrintTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.dom")
	defer teardown()
	//
	doc, _ := load(t)
	s := PrintTree(doc)
	t.Logf("\n%s", s)
	assert.True(t, strings.HasPrefix(s, "html ["))
	assert.Contains(t, s, "section#main [")
	assert.Contains(t, s, "div.a [")
	assert.NotContains(t, s, "node-changed")
	root, _ := doc.Root()
	require.NoError(t, doc.UpdateAttribute(root, "lang", "de"))
	assert.Contains(t, PrintTree(doc), "node-changed")
}

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.dom")
	defer teardown()
	//
	doc, _ := load(t)
	var buf bytes.Buffer
	require.NoError(t, ToGraphViz(doc, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "digraph g {"))
	assert.Contains(t, buf.String(), "section div.a p")
	buf.Reset()
	require.NoError(t, AutomatonToGraphViz(doc.Automaton(), doc.Catalog(), &buf))
	assert.Contains(t, buf.String(), "doublecircle")
	assert.Contains(t, buf.String(), `label="match(div p)"`)
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
}
