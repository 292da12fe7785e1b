package domdbg

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"testing"
	"text/template"

	"github.com/npillmayer/restyle/automaton"
	"github.com/npillmayer/restyle/dom"
	"github.com/npillmayer/restyle/selector"
	"github.com/npillmayer/restyle/tree"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname  string
	NodeTmpl  *template.Template
	EdgeTmpl  *template.Template
	RulesTmpl *template.Template
	RuleEdge  *template.Template
}

func newGraphParams() *graphParamsType {
	return &graphParamsType{
		Fontname:  "Helvetica",
		NodeTmpl:  template.Must(template.New("domnode").Parse(domNodeTmpl)),
		EdgeTmpl:  template.Must(template.New("domedge").Parse(domEdgeTmpl)),
		RulesTmpl: template.Must(template.New("rules").Parse(rulesTmpl)),
		RuleEdge:  template.Must(template.New("ruleedge").Parse(ruleEdgeTmpl)),
	}
}

type node struct {
	Name  string
	Label string
	Dirty bool
}

type edge struct {
	N1, N2 string
}

type matches struct {
	Name      string
	Selectors []string
}

// ToGraphViz outputs a diagram for a document. The diagram is in
// GraphViz (DOT) format. Every node with matching rules is connected to a
// table listing the selectors of these rules.
func ToGraphViz(doc *dom.Document, w io.Writer) error {
	gparams := newGraphParams()
	head := template.Must(template.New("dom").Parse(graphHeadTmpl))
	if err := head.Execute(w, gparams); err != nil {
		return err
	}
	name := func(id tree.NodeID) string { return fmt.Sprintf("node%05d", id) }
	for _, id := range doc.Find(all) {
		n := node{Name: name(id), Label: Label(doc, id), Dirty: doc.Cache(id).RecursiveDirty()}
		if err := gparams.NodeTmpl.Execute(w, n); err != nil {
			return err
		}
		if parent, ok := doc.Parent(id); ok {
			if err := gparams.EdgeTmpl.Execute(w, edge{name(parent), n.Name}); err != nil {
				return err
			}
		}
		rules := doc.MatchingRules(id)
		if len(rules) == 0 {
			continue
		}
		m := matches{Name: n.Name}
		for _, r := range rules {
			m.Selectors = append(m.Selectors, r.Selector)
		}
		if err := gparams.RulesTmpl.Execute(w, m); err != nil {
			return err
		}
		if err := gparams.RuleEdge.Execute(w, m); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte("}\n"))
	return err
}

type stateNode struct {
	Name   string
	Label  string
	Accept bool
}

type transition struct {
	From, To string
	Label    string
	Loop     bool
}

// AutomatonToGraphViz outputs a diagram of a selector automaton in GraphViz
// (DOT) format. Intrinsic rules start at a pseudo-state 'start', propagating
// rules lead from the parent state to the target state. Edges are labelled
// with the selector a rule requires.
func AutomatonToGraphViz(a *automaton.Automaton, cat *selector.Catalog, w io.Writer) error {
	gparams := newGraphParams()
	head := template.Must(template.New("automaton").Parse(graphHeadTmpl))
	if err := head.Execute(w, gparams); err != nil {
		return err
	}
	stTmpl := template.Must(template.New("state").Parse(stateTmpl))
	trTmpl := template.Must(template.New("transition").Parse(transitionTmpl))
	if _, err := io.WriteString(w, "start [ shape=point ] ;\n"); err != nil {
		return err
	}
	name := func(s automaton.State) string { return fmt.Sprintf("s%d", s) }
	for s := automaton.State(0); int(s) < a.NumStates(); s++ {
		if err := stTmpl.Execute(w, stateNode{name(s), a.Label(s), a.IsAccept(s)}); err != nil {
			return err
		}
	}
	for _, r := range a.Rules() {
		t := transition{From: "start", To: name(r.Target), Label: cat.Text(r.Selector)}
		if !r.Intrinsic() {
			t.From = name(r.Parent)
			t.Loop = r.Parent == r.Target
		}
		if err := trTmpl.Execute(w, t); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte("}\n"))
	return err
}

// Dotty is a helper for testing. Given a document and a testing.T, it will
// create a Graphiviz image of the document tree and write it to a file in
// the current folder, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
func Dotty(doc *dom.Document, t *testing.T) {
	tmpfile, err := os.CreateTemp(".", "dom.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing DOM digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(doc, tmpfile); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing DOM tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ .Name }}	[ label={{ printf "%q" .Label }} shape=ellipse style=filled fillcolor={{ if .Dirty }}salmon{{ else }}lightblue3{{ end }} ] ;
`

const domEdgeTmpl = `{{ .N1 }} -> {{ .N2 }} [weight=1] ;
`

const rulesTmpl = `{{ .Name }}_rules [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center"><font color="white">matches</font></td></tr>
      {{ range .Selectors }}
      <tr><td align="left">{{ . | html }}</td></tr>
      {{ end }}
    </table>> ] ;
`

const ruleEdgeTmpl = `{{ .Name }} -> {{ .Name }}_rules [dir=none weight=1 style="dashed"] ;
`

const stateTmpl = `{{ .Name }}	[ label={{ printf "%q" .Label }} shape={{ if .Accept }}doublecircle{{ else }}circle{{ end }} ] ;
`

const transitionTmpl = `{{ .From }} -> {{ .To }} [ label={{ printf "%q" .Label }}{{ if .Loop }} style="dotted"{{ end }} ] ;
`
