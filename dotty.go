package blinktree

import (
	"fmt"
	"io"
	"strings"
)

type nodeids[K, V any] struct {
	idTable map[*node[K, V]]int
	max     int
}

func newtable[K, V any]() nodeids[K, V] {
	return nodeids[K, V]{
		idTable: make(map[*node[K, V]]int),
		max:     1,
	}
}

func (ids nodeids[K, V]) find(n *node[K, V]) int {
	return ids.idTable[n]
}

func (ids *nodeids[K, V]) alloc(n *node[K, V]) int {
	if id := ids.find(n); id > 0 {
		return id
	}
	ids.idTable[n] = ids.max
	ids.max++
	return ids.max - 1
}

// Tree2Dot outputs the internal structure of a tree in Graphviz DOT format
// (for debugging purposes). Nodes of a level are ranked together; child
// pointers are drawn as solid edges, right links as dashed edges.
//
// Tree2Dot expects a quiescent tree.
func Tree2Dot[K, V any](t *Tree[K, V], w io.Writer) error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	var nodelist, edgelist strings.Builder
	ids := newtable[K, V]()
	for level := t.Height(); level >= 0; level-- {
		var rank []string
		for n := t.leftmost(level); n != nil; {
			c := n.load()
			ID := ids.alloc(n)
			rank = append(rank, fmt.Sprintf("\"%d\"", ID))
			fmt.Fprintf(&nodelist, "\"%d\" [label=\"%s\" %s];\n", ID, dotLabel(c), nodeDotStyles(n.isLeaf()))
			if !n.isLeaf() {
				for i := 0; i < c.children.Len(); i++ {
					fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\";\n", ID, ids.alloc(c.children.At(i)))
				}
			}
			if c.link != nil {
				fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\" [style=dashed,constraint=false];\n",
					ID, ids.alloc(c.link))
			}
			n = c.link
		}
		fmt.Fprintf(&nodelist, "{rank=same; %s}\n", strings.Join(rank, " "))
	}
	_, err := io.WriteString(w, "strict digraph {\n"+
		"\tnode [fontname=Arial,fontsize=12];\n"+
		nodelist.String()+edgelist.String()+"}\n")
	if err != nil {
		T().Errorf("tree DOT: %s", err.Error())
	}
	return err
}

func dotLabel[K, V any](c *content[K, V]) string {
	var b strings.Builder
	for i := 0; i < c.keys.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, c.keys.At(i))
	}
	if c.bounded {
		fmt.Fprintf(&b, " | %v", c.highKey)
	} else {
		b.WriteString(" | ∞")
	}
	return strings.ReplaceAll(b.String(), "\"", "\\\"")
}

func nodeDotStyles(isleaf bool) string {
	s := ",style=filled"
	if isleaf {
		s += ",shape=box,fillcolor=white"
	} else {
		s += ",color=black,fillcolor=\"#a3d7e4\""
		s += ",shape=box"
	}
	return s
}
