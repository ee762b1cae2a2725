// Package splitter partitions a monolithic SQL migration into numbered parts.
//
// A part starts at a marker block of three comment lines:
//
//	-- ============================================================================
//	-- PARTE 7: Add Users Table
//	-- ============================================================================
//
// Everything before the first marker is a header and is discarded. Each part
// becomes one OutputFile named <date>_<NNN>_<sanitized name>.sql whose content is
// a synthesized header followed by the part's own text, marker included.
//
// Split is pure: it never touches the filesystem. Writing the plan is the job of
// the writer package.
package splitter
