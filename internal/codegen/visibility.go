package codegen

import "github.com/llir/llvm/ir/enum"

// Visibility controls whether a symbol is usable outside its declaring
// library. The zero value is the documented default.
type Visibility uint8

const (
	Public Visibility = iota
	Private
)

func (v Visibility) valid() bool {
	return v == Public || v == Private
}

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	}
	return "invalid"
}

// linkage maps library visibility onto IR linkage.
func (v Visibility) linkage() enum.Linkage {
	if v == Private {
		return enum.LinkageInternal
	}
	return enum.LinkageExternal
}

// ParseVisibility accepts the textual spellings used by manifests and the
// CLI. ok is false for unknown input; callers fall back to the default.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "public", "":
		return Public, true
	case "private":
		return Private, true
	}
	return Public, false
}

// PrefixPolicy selects how imported symbol names are rewritten. The zero
// value is the documented default.
type PrefixPolicy uint8

const (
	// PrefixSmart prefixes with the source library name only on collision.
	PrefixSmart PrefixPolicy = iota
	// PrefixNone keeps original names and accepts collision risk.
	PrefixNone
	// PrefixAll always prefixes with the source library name.
	PrefixAll
)

func (p PrefixPolicy) valid() bool {
	return p == PrefixSmart || p == PrefixNone || p == PrefixAll
}

func (p PrefixPolicy) String() string {
	switch p {
	case PrefixSmart:
		return "smart"
	case PrefixNone:
		return "none"
	case PrefixAll:
		return "all"
	}
	return "invalid"
}

// ParsePrefixPolicy accepts the textual spellings used by manifests and the
// CLI. ok is false for unknown input; callers fall back to the default.
func ParsePrefixPolicy(s string) (PrefixPolicy, bool) {
	switch s {
	case "smart", "":
		return PrefixSmart, true
	case "none":
		return PrefixNone, true
	case "all":
		return PrefixAll, true
	}
	return PrefixSmart, false
}
