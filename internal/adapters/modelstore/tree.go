package modelstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/okian/innings/internal/domain/features"
	"github.com/okian/innings/internal/domain/model"
)

// treeNode is either a split (label empty) or a leaf.
type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	label     model.Label
}

// DecisionTree is a binary classification tree. A sample goes left when its
// feature value is less than or equal to the split threshold.
type DecisionTree struct {
	info  model.Info
	nodes []treeNode
}

func newDecisionTree(info model.Info, specs []nodeSpec) (*DecisionTree, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: decision tree has no nodes", ErrArtifactCorrupt)
	}
	nodes := make([]treeNode, len(specs))
	var labels []model.Label
	for i, s := range specs {
		if s.Label != "" {
			nodes[i] = treeNode{label: model.Label(s.Label)}
			labels = append(labels, model.Label(s.Label))
			continue
		}
		idx := slices.Index(info.Features, s.Feature)
		if idx < 0 {
			return nil, fmt.Errorf("%w: node %d splits on unknown feature %q", ErrArtifactCorrupt, i, s.Feature)
		}
		// Children must come after their parent; this rules out cycles.
		for _, child := range []int{s.Left, s.Right} {
			if child <= i || child >= len(specs) {
				return nil, fmt.Errorf("%w: node %d has invalid child %d", ErrArtifactCorrupt, i, child)
			}
		}
		nodes[i] = treeNode{feature: idx, threshold: s.Threshold, left: s.Left, right: s.Right}
	}
	info.Labels = uniqueLabels(labels)
	return &DecisionTree{info: info, nodes: nodes}, nil
}

// Predict walks the tree from the root to a leaf.
func (t *DecisionTree) Predict(_ context.Context, v features.Vector) (model.Label, error) {
	if !v.HasSchema(t.info.Features) {
		return "", fmt.Errorf("%w: got %v", model.ErrSchemaMismatch, v.Names())
	}
	x := v.Values()
	i := 0
	for {
		n := t.nodes[i]
		if n.label != "" {
			return n.label, nil
		}
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

// Info describes the tree.
func (t *DecisionTree) Info() model.Info { return t.info }
