package wasm

import (
	"github.com/wippyai/wasm-embed/errors"
	bin "github.com/wippyai/wasm-embed/wasm/internal/binary"
)

// Section describes one section of a module binary by byte range. Start is
// the offset of the section ID byte, Payload the offset of the first payload
// byte, and End one past the last payload byte, so data[Start:End] is the
// complete section and data[Payload:End] its payload. For custom sections
// the payload begins with the length-prefixed section name and Name carries
// the decoded value; Name is empty for all other sections.
type Section struct {
	Name    string
	ID      byte
	Start   int
	Payload int
	End     int
}

// ScanSections checks the module header and walks the section list, returning
// one Section per entry in binary order. Section payloads are not decoded
// beyond the custom-section name, so a module whose inner sections are
// malformed still scans as long as the section framing is intact.
//
// Only core modules are accepted. Component model binaries share the magic
// number but carry a layer marker in the version field and are rejected with
// an unsupported error.
func ScanSections(data []byte) ([]Section, error) {
	r := bin.NewReader(data)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, errors.InvalidData(errors.PhaseDecode, "truncated module header")
	}
	if magic != Magic {
		return nil, errors.InvalidData(errors.PhaseDecode, "invalid wasm magic number")
	}
	version, err := r.ReadU32LE()
	if err != nil {
		return nil, errors.InvalidData(errors.PhaseDecode, "truncated module header")
	}
	if version != Version {
		if isComponentVersion(version) {
			return nil, errors.Unsupported(errors.PhaseDecode, "component model binaries")
		}
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(4).
			Value(version).
			Detail("unsupported wasm version 0x%08x", version).
			Build()
	}

	var sections []Section

	// Track canonical ordering; custom sections can appear anywhere.
	lastOrder := 0

	for r.Remaining() > 0 {
		start := r.Position()

		id, err := r.ReadByte()
		if err != nil {
			return nil, errors.OutOfBounds(errors.PhaseDecode, start, len(data))
		}
		if id > SectionTag {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Offset(start).
				Value(id).
				Detail("unknown section ID 0x%02x", id).
				Build()
		}
		if id != SectionCustom {
			order := sectionOrder(id)
			if order <= lastOrder {
				return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
					Section(SectionName(id)).
					Offset(start).
					Detail("section appears out of order").
					Build()
			}
			lastOrder = order
		}

		size, err := r.ReadU32()
		if err != nil {
			return nil, errors.SectionMalformed(SectionName(id), start, "truncated section size")
		}
		payload := r.Position()
		if int(size) > r.Remaining() {
			return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
				Section(SectionName(id)).
				Offset(payload).
				Detail("section size %d exceeds remaining %d bytes", size, r.Remaining()).
				Build()
		}
		if err := r.Skip(int(size)); err != nil {
			return nil, errors.OutOfBounds(errors.PhaseDecode, payload, len(data))
		}

		sec := Section{
			ID:      id,
			Start:   start,
			Payload: payload,
			End:     r.Position(),
		}
		if id == SectionCustom {
			name, err := bin.NewReader(data[payload:sec.End]).ReadName()
			if err != nil {
				return nil, errors.SectionMalformed("custom", payload, "malformed custom section name")
			}
			sec.Name = name
		}
		sections = append(sections, sec)
	}

	return sections, nil
}

// isComponentVersion reports whether a decoded version field belongs to a
// component model binary (version 0x0d with a nonzero layer).
func isComponentVersion(v uint32) bool {
	return v > 1
}

// IsComponent reports whether data starts like a component model binary:
// the shared magic number followed by a layer marker instead of the core
// module version.
func IsComponent(data []byte) bool {
	r := bin.NewReader(data)
	magic, err := r.ReadU32LE()
	if err != nil || magic != Magic {
		return false
	}
	version, err := r.ReadU32LE()
	return err == nil && isComponentVersion(version)
}

// sectionOrder returns the canonical ordering for a section ID.
// The spec requires sections in a specific order that differs from the IDs:
// Tag sits between Memory and Global, and DataCount precedes Code.
func sectionOrder(id byte) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionTag:
		return 6
	case SectionGlobal:
		return 7
	case SectionExport:
		return 8
	case SectionStart:
		return 9
	case SectionElement:
		return 10
	case SectionDataCount:
		return 11
	case SectionCode:
		return 12
	case SectionData:
		return 13
	default:
		return 100
	}
}
