package importgraph

// symbolTable maps canonical keys to dense integer IDs and back.
type symbolTable struct {
	keyToID map[string]int
	idToKey []string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{keyToID: make(map[string]int)}
}

// intern returns the ID for key, assigning the next free one on first sight.
func (table *symbolTable) intern(key string) (int, bool) {
	if id, exists := table.keyToID[key]; exists {
		return id, false
	}

	id := len(table.idToKey)
	table.idToKey = append(table.idToKey, key)
	table.keyToID[key] = id

	return id, true
}

func (table *symbolTable) lookup(key string) (int, bool) {
	id, exists := table.keyToID[key]

	return id, exists
}

func (table *symbolTable) resolve(id int) string {
	if id < 0 || id >= len(table.idToKey) {
		return ""
	}

	return table.idToKey[id]
}

func (table *symbolTable) len() int {
	return len(table.idToKey)
}
