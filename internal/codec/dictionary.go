package codec

// dictionary интернирует строки: каждая уникальная строка получает
// индекс в порядке первого добавления, повторы возвращают прежний
// индекс. В закодированном виде строки передаются один раз, все
// ссылки на них — целые индексы.
type dictionary struct {
	entries []string
	index   map[string]int
}

func newDictionary() *dictionary {
	return &dictionary{index: make(map[string]int)}
}

// Add возвращает индекс строки, добавляя ее при первом появлении.
func (d *dictionary) Add(s string) int {
	if i, ok := d.index[s]; ok {
		return i
	}
	i := len(d.entries)
	d.entries = append(d.entries, s)
	d.index[s] = i
	return i
}

// At возвращает строку по индексу; пустая строка при выходе за границы.
func (d *dictionary) At(i int) string {
	if i < 0 || i >= len(d.entries) {
		return ""
	}
	return d.entries[i]
}
