package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	// Component model binaries carry a layer field in the same bytes and
	// decode to a different value; ScanSections rejects them.
	Version uint32 = 0x01
)

// Section IDs define the binary identifiers for each module section.
// Non-custom sections must appear in canonical order, which differs from
// the numeric IDs; see sectionOrder.
const (
	SectionCustom    byte = 0  // Custom section (can appear anywhere)
	SectionType      byte = 1  // Type section (function signatures)
	SectionImport    byte = 2  // Import section
	SectionFunction  byte = 3  // Function section (type indices)
	SectionTable     byte = 4  // Table section
	SectionMemory    byte = 5  // Memory section
	SectionGlobal    byte = 6  // Global section
	SectionExport    byte = 7  // Export section
	SectionStart     byte = 8  // Start section
	SectionElement   byte = 9  // Element section
	SectionCode      byte = 10 // Code section (function bodies)
	SectionData      byte = 11 // Data section
	SectionDataCount byte = 12 // Data count section (bulk memory)
	SectionTag       byte = 13 // Tag section (exception handling)
)

// NameSectionName is the registered name of the custom section carrying
// module, function, and local names.
const NameSectionName = "name"

// Name subsection IDs within the "name" custom section. Each subsection
// appears at most once, in increasing order by ID. IDs 3 and above come
// from the extended-name-section proposal.
const (
	NameSubsecModule   byte = 0  // single module name
	NameSubsecFunction byte = 1  // function index -> name map
	NameSubsecLocal    byte = 2  // per-function local name maps
	NameSubsecLabel    byte = 3  // per-function label name maps
	NameSubsecType     byte = 4  // type index -> name map
	NameSubsecTable    byte = 5  // table index -> name map
	NameSubsecMemory   byte = 6  // memory index -> name map
	NameSubsecGlobal   byte = 7  // global index -> name map
	NameSubsecElem     byte = 8  // element segment index -> name map
	NameSubsecData     byte = 9  // data segment index -> name map
	NameSubsecField    byte = 10 // struct field name maps (GC proposal)
	NameSubsecTag      byte = 11 // tag index -> name map
)

// SectionName returns the conventional name for a section ID, for error
// messages and section listings. Custom sections report as "custom"; their
// own name travels in the payload.
func SectionName(id byte) string {
	switch id {
	case SectionCustom:
		return "custom"
	case SectionType:
		return "type"
	case SectionImport:
		return "import"
	case SectionFunction:
		return "function"
	case SectionTable:
		return "table"
	case SectionMemory:
		return "memory"
	case SectionGlobal:
		return "global"
	case SectionExport:
		return "export"
	case SectionStart:
		return "start"
	case SectionElement:
		return "element"
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	case SectionDataCount:
		return "data count"
	case SectionTag:
		return "tag"
	default:
		return "unknown"
	}
}
