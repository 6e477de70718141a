package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Node is a decision tree node. Leaves have Left and Right set to -1 and carry the class in Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     Label   `json:"value"`
}

func (n Node) isLeaf() bool {
	return n.Left < 0 && n.Right < 0
}

// Tree is a flattened binary decision tree, node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// RandomForest is a majority vote over decision trees.
type RandomForest struct {
	Features int    `json:"n_features"`
	Trees    []Tree `json:"trees"`
}

func parseRandomForest(data []byte) (*RandomForest, error) {
	var rf RandomForest
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, err
	}
	if rf.Features <= 0 {
		return nil, errors.New("random forest without n_features")
	}
	if len(rf.Trees) == 0 {
		return nil, errors.New("random forest without trees")
	}
	for i, t := range rf.Trees {
		if err := t.validate(rf.Features); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return &rf, nil
}

// validate makes sure every path ends in a leaf, so predict can't loop or index out of range.
func (t Tree) validate(features int) error {
	if len(t.Nodes) == 0 {
		return errors.New("empty tree")
	}
	for i, n := range t.Nodes {
		if n.isLeaf() {
			if n.Value != Eligible && n.Value != NotEligible {
				return fmt.Errorf("node %d: leaf value must be 0 or 1", i)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		// children must come after their parent, which rules out cycles
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d: invalid child %d", i, child)
			}
		}
	}
	return nil
}

func (t Tree) predict(values []float64) Label {
	i := 0
	for {
		n := t.Nodes[i]
		if n.isLeaf() {
			return n.Value
		}
		if values[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (rf *RandomForest) NumFeatures() int {
	return rf.Features
}

// Predict returns the majority vote of all trees. Ties are not eligible.
func (rf *RandomForest) Predict(values []float64) (Label, error) {
	if err := checkLength(values, rf.Features); err != nil {
		return NotEligible, err
	}
	var votes int
	for _, t := range rf.Trees {
		if t.predict(values) == Eligible {
			votes++
		}
	}
	if 2*votes > len(rf.Trees) {
		return Eligible, nil
	}
	return NotEligible, nil
}
