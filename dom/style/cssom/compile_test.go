package cssom

import (
	"testing"

	"github.com/npillmayer/restyle/dom"
	"github.com/npillmayer/restyle/engine"
	"github.com/npillmayer/restyle/selector"
	"github.com/npillmayer/restyle/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sheet []Rule

func (s *sheet) AppendRules(other StyleSheet) { *s = append(*s, other.Rules()...) }
func (s *sheet) Empty() bool                  { return len(*s) == 0 }
func (s *sheet) Rules() []Rule                { return *s }

type rule []string

func (r rule) Selectors() []string { return r }

func TestCompileSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.cssom")
	defer teardown()
	//
	s := &sheet{rule{"ul li", "p"}, rule{"div > p"}}
	s.AppendRules(&sheet{rule{" ul  li ", "a::before", "em"}})
	c, err := Compile(s)
	require.NoError(t, err)
	require.Len(t, c.Rules, 3)
	assert.Equal(t, "ul li", c.Rules[0].Selector)
	assert.Equal(t, "p", c.Rules[1].Selector)
	assert.Equal(t, "em", c.Rules[2].Selector)
	require.Len(t, c.Skipped, 2)
	assert.ErrorIs(t, c.Skipped[0].Err, selector.ErrUnsupported)
	assert.Equal(t, "a::before", c.Skipped[1].Selector)
	doc := c.NewDocument(engine.Options{Validate: engine.StrictValidator()})
	_, err = doc.AddNodeByPath(tree.Path{}, dom.NodeSpec{Tag: "ul", Children: []dom.NodeSpec{
		{Tag: "li", Children: []dom.NodeSpec{{Tag: "em"}}},
	}})
	require.NoError(t, err)
	doc.Recompute()
	li, _ := doc.NodeIDByPath(tree.Path{0})
	em, _ := doc.NodeIDByPath(tree.Path{0, 0})
	assert.Equal(t, []dom.Rule{c.Rules[0]}, doc.MatchingRules(li))
	assert.Equal(t, []dom.Rule{c.Rules[2]}, doc.MatchingRules(em))
}

func TestCompileNothing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.cssom")
	defer teardown()
	//
	c, err := CompileSelectors([]string{"a > b", ""})
	assert.ErrorIs(t, err, ErrNoSelectors)
	assert.Len(t, c.Skipped, 2)
	assert.True(t, (&sheet{}).Empty())
}
