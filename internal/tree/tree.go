// Package tree models a directory hierarchy as an index arena of nodes.
package tree

import "os"

// NoParent is the Parent value of the root node.
const NoParent = -1

// RootIndex is the arena index of the root node.
const RootIndex = 0

// Node is one filesystem entry. Children and Parent are indexes into Tree.Nodes; the parent
// owns the ordered Children list and Parent is only a back-reference.
type Node struct {
	Name        string
	IsDirectory bool
	Children    []int
	Parent      int
	Selected    bool
	Expanded    bool
}

// Tree stores nodes in creation order, which is a depth-first pre-order traversal with
// children sorted by name. Index RootIndex is the root.
type Tree struct {
	BaseDirectory string
	Nodes         []Node
}

// Len returns the number of nodes in the tree.
func (tree *Tree) Len() int {
	return len(tree.Nodes)
}

// Node returns a pointer to the node at index.
func (tree *Tree) Node(index int) *Node {
	return &tree.Nodes[index]
}

// New returns a tree holding only its root node.
func New(baseDirectory string, rootName string, rootIsDirectory bool) *Tree {
	return &Tree{
		BaseDirectory: baseDirectory,
		Nodes: []Node{{
			Name:        rootName,
			IsDirectory: rootIsDirectory,
			Parent:      NoParent,
			Expanded:    true,
		}},
	}
}

// AddChild appends a node under parentIndex and returns its index. Callers add children in
// name order, depth-first, so that arena order stays a pre-order traversal.
func (tree *Tree) AddChild(parentIndex int, name string, isDirectory bool) int {
	tree.Nodes = append(tree.Nodes, Node{
		Name:        name,
		IsDirectory: isDirectory,
		Parent:      parentIndex,
		Expanded:    true,
	})
	index := len(tree.Nodes) - 1
	parent := &tree.Nodes[parentIndex]
	parent.Children = append(parent.Children, index)
	return index
}

// Depth returns the number of ancestors of the node at index.
func (tree *Tree) Depth(index int) int {
	depth := 0
	for current := tree.Nodes[index].Parent; current != NoParent; current = tree.Nodes[current].Parent {
		depth++
	}
	return depth
}

// FullPath reconstructs the filesystem path of the node at index by appending the names on the
// parent chain below the root to the base directory. The base directory is kept exactly as
// configured, so a base of "." yields paths such as "./a.py".
func (tree *Tree) FullPath(index int) string {
	var names []string
	for current := index; current != RootIndex && current != NoParent; current = tree.Nodes[current].Parent {
		names = append(names, tree.Nodes[current].Name)
	}
	fullPath := tree.BaseDirectory
	for position := len(names) - 1; position >= 0; position-- {
		fullPath = appendPathElement(fullPath, names[position])
	}
	return fullPath
}

// appendPathElement adds name to prefix with a single separator and leaves prefix uncleaned.
func appendPathElement(prefix string, name string) string {
	if prefix == "" || os.IsPathSeparator(prefix[len(prefix)-1]) {
		return prefix + name
	}
	return prefix + string(os.PathSeparator) + name
}

// Walk visits the subtree rooted at index depth-first, parents before children. Returning
// false from visit skips the node's children.
func (tree *Tree) Walk(index int, visit func(index int) bool) {
	if !visit(index) {
		return
	}
	for _, childIndex := range tree.Nodes[index].Children {
		tree.Walk(childIndex, visit)
	}
}

// FilesUnder returns the paths of every file beneath (or at) index in traversal order.
func (tree *Tree) FilesUnder(index int) []string {
	var files []string
	tree.Walk(index, func(current int) bool {
		if !tree.Nodes[current].IsDirectory {
			files = append(files, tree.FullPath(current))
		}
		return true
	})
	return files
}

// Files returns the path of every file in the tree in traversal order.
func (tree *Tree) Files() []string {
	if len(tree.Nodes) == 0 {
		return nil
	}
	return tree.FilesUnder(RootIndex)
}
