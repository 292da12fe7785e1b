package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"io"

	"github.com/npillmayer/restyle/selector"
	"github.com/npillmayer/restyle/tree"
	"gopkg.in/yaml.v3"
)

// ErrFrame is returned for malformed mutation frames.
var ErrFrame = errors.New("invalid frame")

// Frame operations.
const (
	OpInsert    = "insert"    // insert Node at Path
	OpRemove    = "remove"    // remove the subtree at Path
	OpAttr      = "attr"      // set (or, with Remove, delete) attribute Key
	OpClass     = "class"     // add (or, with Remove, drop) class Key
	OpPseudo    = "pseudo"    // switch raw pseudo-class Pseudo on or off
	OpRecompute = "recompute" // ends a batch of mutations
)

// Frame is one step of a recorded mutation sequence.
//
//	- op: insert
//	  path: /0/1
//	  node: { tag: li, classes: [item] }
//	- op: attr
//	  path: /0/1
//	  key: lang
//	  value: de
//	- op: pseudo
//	  path: /0
//	  pseudo: hover
//	  on: true
//	- op: recompute
type Frame struct {
	Op     string    `yaml:"op"`
	Path   string    `yaml:"path,omitempty"`
	Node   *NodeSpec `yaml:"node,omitempty"`
	Key    string    `yaml:"key,omitempty"`
	Value  string    `yaml:"value,omitempty"`
	Remove bool      `yaml:"remove,omitempty"`
	Pseudo string    `yaml:"pseudo,omitempty"`
	On     bool      `yaml:"on,omitempty"`
}

func (f Frame) String() string {
	return fmt.Sprintf("%s %s", f.Op, f.Path)
}

// LoadFrames reads a YAML list of frames.
func LoadFrames(r io.Reader) ([]Frame, error) {
	var frames []Frame
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&frames); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrFrame, err)
	}
	for i, f := range frames {
		if err := f.check(); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	tracer().Infof("loaded %d frames", len(frames))
	return frames, nil
}

func (f Frame) check() error {
	switch f.Op {
	case OpInsert:
		if f.Node == nil {
			return fmt.Errorf("%w: insert without node", ErrFrame)
		}
		return f.Node.Validate()
	case OpRemove, OpRecompute:
	case OpAttr, OpClass:
		if f.Key == "" {
			return fmt.Errorf("%w: %s without key", ErrFrame, f.Op)
		}
	case OpPseudo:
		if _, ok := selector.PseudoByName(f.Pseudo); !ok {
			return fmt.Errorf("%w: unknown pseudo-class %q", ErrFrame, f.Pseudo)
		}
	default:
		return fmt.Errorf("%w: unknown op %q", ErrFrame, f.Op)
	}
	return nil
}

// Apply performs the mutation a frame describes. Recompute frames are
// accepted and ignored; callers use them to delimit batches.
func (d *Document) Apply(f Frame) error {
	if err := f.check(); err != nil {
		return err
	}
	if f.Op == OpRecompute {
		return nil
	}
	path, err := tree.ParsePath(f.Path)
	if err != nil {
		return err
	}
	tracer().Debugf("apply frame %v", f)
	switch f.Op {
	case OpInsert:
		_, err = d.AddNodeByPath(path, *f.Node)
	case OpRemove:
		_, err = d.RemoveNodeByPath(path)
	case OpAttr:
		if f.Remove {
			err = d.RemoveAttributeByPath(path, f.Key)
		} else {
			err = d.UpdateAttributeByPath(path, f.Key, f.Value)
		}
	case OpClass:
		var id tree.NodeID
		if id, err = d.resolve(path); err != nil {
			break
		}
		if f.Remove {
			err = d.RemoveClass(id, f.Key)
		} else {
			err = d.AddClass(id, f.Key)
		}
	case OpPseudo:
		p, _ := selector.PseudoByName(f.Pseudo)
		err = d.SetPseudoByPath(path, p, f.On)
	}
	return err
}
