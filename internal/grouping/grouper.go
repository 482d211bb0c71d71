package grouping

import (
	"github.com/rxtech-lab/argo-vector/internal/types"
)

// Member is a combination together with its position in the caller's list.
type Member struct {
	Index int
	Spec  types.StrategySpec
}

// Group holds every combination sharing one shape signature.
type Group struct {
	Signature types.ShapeSignature
	Members   []Member
}

// Key returns the signature key of the group.
func (g Group) Key() string {
	return g.Signature.Key()
}

// Unit is a slice of a group dispatched to a worker as one piece of work.
type Unit struct {
	Signature types.ShapeSignature
	Members   []Member
	// Seq is the position of the unit in the run's dispatch order.
	Seq int
}

// Indices returns the caller positions of the unit's members.
func (u Unit) Indices() []int {
	out := make([]int, len(u.Members))
	for i, m := range u.Members {
		out[i] = m.Index
	}

	return out
}

// GroupSpecs partitions specs by shape signature. Groups appear in the order their
// signature is first seen and members keep their input order.
func GroupSpecs(specs []types.StrategySpec) []Group {
	return GroupMembers(membersOf(specs))
}

// GroupMembers partitions already indexed members. It lets callers drop
// invalid specs without renumbering the rest.
func GroupMembers(members []Member) []Group {
	var groups []Group

	position := map[string]int{}

	for _, m := range members {
		sig := m.Spec.Signature()
		key := sig.Key()

		i, ok := position[key]
		if !ok {
			i = len(groups)
			position[key] = i
			groups = append(groups, Group{Signature: sig})
		}

		groups[i].Members = append(groups[i].Members, m)
	}

	return groups
}

// Chunk splits a group into units of at most size members. A size below one
// is treated as one.
func Chunk(group Group, size int) []Unit {
	if size < 1 {
		size = 1
	}

	units := make([]Unit, 0, (len(group.Members)+size-1)/size)

	for start := 0; start < len(group.Members); start += size {
		end := min(start+size, len(group.Members))
		units = append(units, Unit{
			Signature: group.Signature,
			Members:   group.Members[start:end],
		})
	}

	return units
}

// Units chunks every group and numbers the units in dispatch order.
func Units(groups []Group, size int) []Unit {
	var units []Unit

	for _, g := range groups {
		for _, u := range Chunk(g, size) {
			u.Seq = len(units)
			units = append(units, u)
		}
	}

	return units
}

func membersOf(specs []types.StrategySpec) []Member {
	members := make([]Member, len(specs))
	for i, spec := range specs {
		members[i] = Member{Index: i, Spec: spec}
	}

	return members
}
