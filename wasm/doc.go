// Package wasm provides section-level WebAssembly binary surgery.
//
// This package deliberately stops short of a full module parser. It walks the
// section framing of a binary, decodes only the "name" custom section, and
// rewrites the module name by splicing bytes, leaving code, data, and every
// other section untouched. A module that round-trips through SetModuleName
// differs from the input only in its name section.
//
// # Scanning
//
// Walk the sections of a binary:
//
//	sections, err := wasm.ScanSections(data)
//	for _, sec := range sections {
//	    fmt.Printf("%s: %d bytes\n", sec.Name, sec.End-sec.Start)
//	}
//
// ScanSections verifies the magic number, the version, and that non-custom
// sections appear in canonical order. Component binaries (layer > 0) are
// rejected; this package handles core modules only.
//
// # Module Names
//
// Read the module name:
//
//	name, found, err := wasm.ModuleName(data)
//
// found is false when the binary has no name section or no module-name
// subsection. An empty name with found == true means the module is
// explicitly named "".
//
// Write the module name:
//
//	renamed, err := wasm.SetModuleName(data, "calculator")
//
// Strip it:
//
//	anonymous, err := wasm.StripModuleName(data)
//
// Both return fresh byte slices and never modify their input.
//
// # Name Section
//
// The name section codec is exposed for callers that want the function-name
// map or the raw subsections:
//
//	ns, err := wasm.DecodeNameSection(body)
//	body = wasm.EncodeNameSection(ns)
//
// Subsections the codec does not model are preserved verbatim, so decoding
// and re-encoding a section keeps debug information produced by other tools.
package wasm
