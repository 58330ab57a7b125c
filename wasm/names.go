package wasm

import (
	"sort"
	"unicode/utf8"

	"github.com/wippyai/wasm-embed/errors"
	bin "github.com/wippyai/wasm-embed/wasm/internal/binary"
)

// NameSection is the decoded form of the "name" custom section. Module is
// the module-name subsection; HasModule distinguishes an empty module name
// from an absent subsection. Funcs carries the function-name map. Subsections
// this package does not model (locals, labels, and the extended-name-section
// families) are preserved verbatim in Unknown so a decode/encode round trip
// does not shed them.
type NameSection struct {
	Module    string
	HasModule bool
	Funcs     map[uint32]string
	Unknown   []Subsection
}

// Subsection is an unmodeled name subsection kept as raw payload bytes.
type Subsection struct {
	Data []byte
	ID   byte
}

// IsEmpty reports whether encoding ns would produce a section with no
// subsections at all.
func (ns *NameSection) IsEmpty() bool {
	return !ns.HasModule && len(ns.Funcs) == 0 && len(ns.Unknown) == 0
}

// DecodeNameSection decodes the body of a "name" custom section. The body
// starts after the custom section's own name field: a sequence of
// (id, size, payload) subsections.
func DecodeNameSection(body []byte) (*NameSection, error) {
	ns := &NameSection{}
	r := bin.NewReader(body)

	for r.Remaining() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return nil, errors.SectionMalformed(NameSectionName, r.Position(), "truncated subsection ID")
		}
		size, err := r.ReadU32()
		if err != nil {
			return nil, errors.SectionMalformed(NameSectionName, r.Position(), "truncated subsection size")
		}
		payload, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
				Section(NameSectionName).
				Offset(r.Position()).
				Detail("subsection size %d exceeds section", size).
				Build()
		}

		switch id {
		case NameSubsecModule:
			sr := bin.NewReader(payload)
			name, err := sr.ReadName()
			if err != nil {
				return nil, errors.SectionMalformed(NameSectionName, r.Position(), "malformed module name")
			}
			ns.Module = name
			ns.HasModule = true
		case NameSubsecFunction:
			funcs, err := decodeNameMap(payload)
			if err != nil {
				return nil, err
			}
			ns.Funcs = funcs
		default:
			ns.Unknown = append(ns.Unknown, Subsection{ID: id, Data: payload})
		}
	}

	return ns, nil
}

func decodeNameMap(payload []byte) (map[uint32]string, error) {
	r := bin.NewReader(payload)
	count, err := r.ReadU32()
	if err != nil {
		return nil, errors.SectionMalformed(NameSectionName, r.Position(), "truncated name map count")
	}
	// Each entry takes at least two bytes (an index LEB and a name-length
	// LEB), so the remaining payload bounds the entry count. A count past
	// that bound is rejected before it can size the map allocation.
	if uint64(count) > uint64(r.Remaining())/2 {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Section(NameSectionName).
			Offset(r.Position()).
			Detail("name map count %d exceeds payload", count).
			Build()
	}
	m := make(map[uint32]string, count)
	for i := uint32(0); i < count; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return nil, errors.SectionMalformed(NameSectionName, r.Position(), "truncated name map index")
		}
		name, err := r.ReadName()
		if err != nil {
			return nil, errors.SectionMalformed(NameSectionName, r.Position(), "malformed name map entry")
		}
		m[idx] = name
	}
	return m, nil
}

// EncodeNameSection encodes ns back into a section body. The module-name
// subsection comes first and the function-name map second, per the required
// subsection ordering; unknown subsections follow in their decoded order.
// Function-name entries are sorted by index as the spec demands.
func EncodeNameSection(ns *NameSection) []byte {
	w := bin.NewWriter()

	if ns.HasModule {
		sub := bin.NewWriter()
		sub.WriteName(ns.Module)
		writeSubsection(w, NameSubsecModule, sub.Bytes())
	}

	if len(ns.Funcs) > 0 {
		idxs := make([]uint32, 0, len(ns.Funcs))
		for idx := range ns.Funcs {
			idxs = append(idxs, idx)
		}
		sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })

		sub := bin.NewWriter()
		sub.WriteU32(uint32(len(idxs)))
		for _, idx := range idxs {
			sub.WriteU32(idx)
			sub.WriteName(ns.Funcs[idx])
		}
		writeSubsection(w, NameSubsecFunction, sub.Bytes())
	}

	for _, sub := range ns.Unknown {
		writeSubsection(w, sub.ID, sub.Data)
	}

	return w.Bytes()
}

func writeSubsection(w *bin.Writer, id byte, payload []byte) {
	w.Byte(id)
	w.WriteU32(uint32(len(payload)))
	w.WriteBytes(payload)
}

// ModuleName extracts the module name from a module binary. found is false
// when the binary carries no name section or the section has no module-name
// subsection. A structurally broken binary or a malformed name section
// returns an error; callers that prefer leniency treat it as absent.
func ModuleName(data []byte) (name string, found bool, err error) {
	sec, ok, err := findNameSection(data)
	if err != nil || !ok {
		return "", false, err
	}
	body, err := nameSectionBody(data, sec)
	if err != nil {
		return "", false, err
	}
	ns, err := DecodeNameSection(body)
	if err != nil {
		return "", false, err
	}
	return ns.Module, ns.HasModule, nil
}

// SetModuleName returns a copy of data with the module-name subsection set to
// name, leaving every other byte of the binary untouched. An existing name
// section keeps its function-name map and unknown subsections; a name section
// whose body fails to decode is replaced wholesale, since its contents cannot
// be carried over safely. When no name section exists one is appended after
// the last section. name must be valid UTF-8; the empty string is allowed.
func SetModuleName(data []byte, name string) ([]byte, error) {
	if !utf8.ValidString(name) {
		return nil, errors.InvalidUTF8(errors.PhaseEncode, []byte(name))
	}

	sections, err := ScanSections(data)
	if err != nil {
		return nil, err
	}

	ns := &NameSection{}
	sec, ok := firstNameSection(sections)
	if ok {
		body, err := nameSectionBody(data, sec)
		if err == nil {
			if decoded, err := DecodeNameSection(body); err == nil {
				ns = decoded
			}
		}
	}
	ns.Module = name
	ns.HasModule = true

	encoded := encodeNameCustomSection(ns)
	if !ok {
		out := make([]byte, 0, len(data)+len(encoded))
		out = append(out, data...)
		return append(out, encoded...), nil
	}
	return splice(data, sec, encoded), nil
}

// StripModuleName returns a copy of data with the module-name subsection
// removed. A section left with no subsections is dropped entirely, as is a
// name section whose body fails to decode. A binary without a module name
// comes back as an unchanged copy.
func StripModuleName(data []byte) ([]byte, error) {
	sections, err := ScanSections(data)
	if err != nil {
		return nil, err
	}

	sec, ok := firstNameSection(sections)
	if !ok {
		return copyBytes(data), nil
	}

	body, err := nameSectionBody(data, sec)
	if err != nil {
		return splice(data, sec, nil), nil
	}
	ns, err := DecodeNameSection(body)
	if err != nil {
		return splice(data, sec, nil), nil
	}
	if !ns.HasModule {
		return copyBytes(data), nil
	}

	ns.Module = ""
	ns.HasModule = false
	if ns.IsEmpty() {
		return splice(data, sec, nil), nil
	}
	return splice(data, sec, encodeNameCustomSection(ns)), nil
}

// findNameSection scans data and returns its "name" custom section. The spec
// allows the section at most once; a binary carrying duplicates resolves to
// the first, matching what tolerant parsers do.
func findNameSection(data []byte) (Section, bool, error) {
	sections, err := ScanSections(data)
	if err != nil {
		return Section{}, false, err
	}
	sec, ok := firstNameSection(sections)
	return sec, ok, nil
}

func firstNameSection(sections []Section) (Section, bool) {
	for _, sec := range sections {
		if sec.ID == SectionCustom && sec.Name == NameSectionName {
			return sec, true
		}
	}
	return Section{}, false
}

// nameSectionBody returns the subsection bytes of a "name" custom section,
// skipping the section's own name field.
func nameSectionBody(data []byte, sec Section) ([]byte, error) {
	r := bin.NewReader(data[sec.Payload:sec.End])
	if _, err := r.ReadName(); err != nil {
		return nil, errors.SectionMalformed("custom", sec.Payload, "malformed custom section name")
	}
	return r.ReadRemaining()
}

// encodeNameCustomSection wraps an encoded name section body in a complete
// custom section: ID byte, size, section name, subsections.
func encodeNameCustomSection(ns *NameSection) []byte {
	payload := bin.NewWriter()
	payload.WriteName(NameSectionName)
	payload.WriteBytes(EncodeNameSection(ns))

	w := bin.NewWriter()
	w.Byte(SectionCustom)
	w.WriteU32(uint32(payload.Len()))
	w.WriteBytes(payload.Bytes())
	return w.Bytes()
}

// splice replaces the byte range of sec with replacement (nil removes the
// section). The result is always a fresh slice.
func splice(data []byte, sec Section, replacement []byte) []byte {
	out := make([]byte, 0, len(data)-(sec.End-sec.Start)+len(replacement))
	out = append(out, data[:sec.Start]...)
	out = append(out, replacement...)
	return append(out, data[sec.End:]...)
}

func copyBytes(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
