package diff

// CalcLineChanges counts added and removed lines of a parsed diff
// returns: addedLines, deletedLines, totalLines
func CalcLineChanges(p *Parsed) (int, int, int) {
	addedLines := 0
	deletedLines := 0
	for _, f := range p.Files {
		addedLines += len(f.Added)
		deletedLines += len(f.Removed)
	}
	return addedLines, deletedLines, addedLines + deletedLines
}
