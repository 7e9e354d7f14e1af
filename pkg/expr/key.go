package expr

import (
	"sort"
	"strconv"
	"strings"
)

// Key is the structural identity of an expression: a kind tag, an optional
// scalar payload for leaves, and the keys of the children for composites.
// Two expressions are equal iff their keys are equal.
type Key struct {
	Tag    string
	Scalar any // nil, bool, int64 or string
	Kids   []Key
}

func scalarRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}

func compareScalar(a, b any) int {
	ra, rb := scalarRank(a), scalarRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch av := a.(type) {
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case int64:
		bv := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		return strings.Compare(av, b.(string))
	}
	return 0
}

// Compare orders keys tag first, then scalar, then children
// lexicographically. Shorter child lists sort first on a common prefix.
func (k Key) Compare(o Key) int {
	if c := strings.Compare(k.Tag, o.Tag); c != 0 {
		return c
	}
	if c := compareScalar(k.Scalar, o.Scalar); c != 0 {
		return c
	}
	for i := 0; i < len(k.Kids) && i < len(o.Kids); i++ {
		if c := k.Kids[i].Compare(o.Kids[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k.Kids) < len(o.Kids):
		return -1
	case len(k.Kids) > len(o.Kids):
		return 1
	}
	return 0
}

// Equal reports whether two keys are structurally identical.
func (k Key) Equal(o Key) bool {
	return k.Compare(o) == 0
}

// String returns the canonical text form, usable as a map key.
func (k Key) String() string {
	var sb strings.Builder
	k.write(&sb)
	return sb.String()
}

func (k Key) write(sb *strings.Builder) {
	sb.WriteByte('(')
	sb.WriteString(k.Tag)
	switch v := k.Scalar.(type) {
	case bool:
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatBool(v))
	case int64:
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatInt(v, 10))
	case string:
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(v))
	}
	for _, kid := range k.Kids {
		sb.WriteByte(' ')
		kid.write(sb)
	}
	sb.WriteByte(')')
}

// notKey is the key a negation of an expression with key k would have.
func notKey(k Key) Key {
	return Key{Tag: KindNot.String(), Kids: []Key{k}}
}

// dualKey is the key of the negation of an expression with key k after De
// Morgan normalization. It works on keys alone and never rebuilds nodes.
func dualKey(k Key) Key {
	switch k.Tag {
	case KindBool.String():
		return Key{Tag: k.Tag, Scalar: k.Scalar != true}
	case KindNot.String():
		return k.Kids[0]
	case KindAnd.String(), KindOr.String():
		tag := KindAnd.String()
		if k.Tag == tag {
			tag = KindOr.String()
		}
		kids := make([]Key, 0, len(k.Kids))
		for _, kid := range k.Kids {
			d := dualKey(kid)
			if d.Tag == tag {
				kids = append(kids, d.Kids...)
			} else {
				kids = append(kids, d)
			}
		}
		sort.SliceStable(kids, func(i, j int) bool { return kids[i].Compare(kids[j]) < 0 })
		uniq := kids[:0]
		for i, kid := range kids {
			if i == 0 || !kid.Equal(uniq[len(uniq)-1]) {
				uniq = append(uniq, kid)
			}
		}
		if len(uniq) == 1 {
			return uniq[0]
		}
		return Key{Tag: tag, Kids: uniq}
	}
	return notKey(k)
}
