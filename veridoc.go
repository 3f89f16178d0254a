// Package veridoc extracts coordinate-anchored facts from technical
// documents (datasheets, schematics, pinout tables) via a vision-language
// model and answers questions strictly from those facts. Every non-refused
// answer is traceable to an exact (page, x, y) location in the source
// document; when no canonical fact derives an answer, the system refuses.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., sqlite/, gemini/,
// ingest/, verify/).
package veridoc
