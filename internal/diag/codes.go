package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Library construction and declaration.
	LibInfo              Code = 1000
	LibInvalidVisibility Code = 1001
	LibInvalidPrefix     Code = 1002
	LibUnknownSymbol     Code = 1003

	// Import merging.
	ImpInfo            Code = 2000
	ImpGlobalCollision Code = 2001
	ImpFuncCollision   Code = 2002
	ImpMacroCollision  Code = 2003
	ImpSymbolPrefixed  Code = 2004
	ImpEmptyLibrary    Code = 2005
)

func (c Code) String() string {
	return fmt.Sprintf("L%04d", uint16(c))
}
