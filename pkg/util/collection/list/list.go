// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package list

// Node is an element of a List.  A node's identity is stable for as long as it
// remains in its list: inserting or removing neighbouring nodes never replaces
// it.
type Node[T any] struct {
	// Value held in this node.
	Value T
	//
	prev, next *Node[T]
	// List this node currently belongs to, or nil once removed.
	list *List[T]
}

// Next returns the node following this one, or nil if this is the last node.
func (p *Node[T]) Next() *Node[T] {
	return p.next
}

// Prev returns the node preceding this one, or nil if this is the first node.
func (p *Node[T]) Prev() *Node[T] {
	return p.prev
}

// List returns the list which contains this node, or nil if it has been
// removed.
func (p *Node[T]) List() *List[T] {
	return p.list
}

// List is a mutable, doubly-linked sequence of values.  Insertion and removal
// at a known node take constant time.
type List[T any] struct {
	head, tail *Node[T]
	length     uint
}

// NewList constructs a list holding the given items, in order.
func NewList[T any](items ...T) *List[T] {
	var l List[T]
	//
	for _, item := range items {
		l.PushBack(item)
	}
	//
	return &l
}

// Len returns the number of nodes in this list.
func (p *List[T]) Len() uint {
	return p.length
}

// Front returns the first node, or nil if the list is empty.
func (p *List[T]) Front() *Node[T] {
	return p.head
}

// Back returns the last node, or nil if the list is empty.
func (p *List[T]) Back() *Node[T] {
	return p.tail
}

// PushBack appends a value onto the end of this list.
func (p *List[T]) PushBack(item T) *Node[T] {
	return p.link(&Node[T]{Value: item}, p.tail, nil)
}

// InsertBefore inserts zero or more values, in order, immediately before a
// given node of this list.  The newly created nodes are returned.
func (p *List[T]) InsertBefore(mark *Node[T], items ...T) []*Node[T] {
	p.checkOwner(mark)
	//
	nodes := make([]*Node[T], len(items))
	//
	for i, item := range items {
		nodes[i] = p.link(&Node[T]{Value: item}, mark.prev, mark)
	}
	//
	return nodes
}

// InsertAfter inserts zero or more values, in order, immediately after a given
// node of this list.  The newly created nodes are returned.
func (p *List[T]) InsertAfter(mark *Node[T], items ...T) []*Node[T] {
	p.checkOwner(mark)
	//
	nodes := make([]*Node[T], len(items))
	prev := mark
	//
	for i, item := range items {
		nodes[i] = p.link(&Node[T]{Value: item}, prev, prev.next)
		prev = nodes[i]
	}
	//
	return nodes
}

// Remove unlinks a given node from this list.  The node's value is left
// untouched, but the node no longer belongs to any list.
func (p *List[T]) Remove(node *Node[T]) {
	p.checkOwner(node)
	//
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		p.head = node.next
	}
	//
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		p.tail = node.prev
	}
	//
	node.prev, node.next, node.list = nil, nil, nil
	p.length--
}

// Nth returns the node at a given offset from the front, or nil if the offset
// is out of bounds.
func (p *List[T]) Nth(n uint) *Node[T] {
	node := p.head
	//
	for i := uint(0); node != nil && i < n; i++ {
		node = node.next
	}
	//
	return node
}

// Values collects the values of this list into a fresh array, in order.
func (p *List[T]) Values() []T {
	items := make([]T, 0, p.length)
	//
	for n := p.head; n != nil; n = n.next {
		items = append(items, n.Value)
	}
	//
	return items
}

// Nodes collects the nodes of this list into a fresh array, in order.
func (p *List[T]) Nodes() []*Node[T] {
	nodes := make([]*Node[T], 0, p.length)
	//
	for n := p.head; n != nil; n = n.next {
		nodes = append(nodes, n)
	}
	//
	return nodes
}

func (p *List[T]) link(node, prev, next *Node[T]) *Node[T] {
	node.prev, node.next, node.list = prev, next, p
	//
	if prev != nil {
		prev.next = node
	} else {
		p.head = node
	}
	//
	if next != nil {
		next.prev = node
	} else {
		p.tail = node
	}
	//
	p.length++
	//
	return node
}

func (p *List[T]) checkOwner(node *Node[T]) {
	if node == nil || node.list != p {
		panic("node does not belong to list")
	}
}
