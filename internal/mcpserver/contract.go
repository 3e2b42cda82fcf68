package mcpserver

// LibraryLayoutContract describes the on-disk layout that Berkano indexes
// and the ownership rules its records follow.
const LibraryLayoutContract = `# Berkano Library Layout Contract

Berkano mirrors a two-level directory tree into metadata records.

## Layout

` + "```" + `
Library/                    # library root
  index.yaml                # library record (managed by Berkano)
  Notebook A/               # any non-hidden subdirectory is a notebook
    toc.yaml                # notebook table of contents (managed by Berkano)
    first-note.md           # any file with the note extension is a page
    second-note.md
    media/                  # reserved for binary assets; never a notebook
      diagram.png
  Notebook B/
    toc.yaml
` + "```" + `

## Rules

1. **Identity is the name.** A notebook's id is its directory name; a
   page's id is its file name. Renaming on disk creates a new entry and
   drops the old one.
2. **The filesystem decides what exists.** Directories and note files
   added or removed on disk appear in or vanish from the records on the
   next reconciliation. There are no tombstones.
3. **The records decide what the user said.** Display names,
   descriptions, tags, icons, and colors set through the update tools
   survive every rescan. Titles, previews, word counts, and timestamps
   are recomputed from disk every time.
4. **Do not edit index.yaml or toc.yaml by hand.** Use the update tools;
   records are rewritten atomically on every pass.
5. **Hidden entries** (names starting with a dot) and the ` + "`media`" + `
   directory are never indexed.
6. **Page ordering** in a table of contents is most-recently-modified
   first.
`
