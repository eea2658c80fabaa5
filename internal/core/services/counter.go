package services

import "sort"

// namedCount — промежуточный итог редьюсера до разрешения индексов:
// имя еще не заменено на индекс таблицы участников.
type namedCount struct {
	Name  string
	Count int
}

// namedMessage — повторяющееся сообщение с именем первого автора.
type namedMessage struct {
	Author  string
	Content string
	Count   int
}

// namedSticker — пара (автор, стикер) с числом отправок.
type namedSticker struct {
	Name    string
	Sticker string
	Count   int
}

// counter считает вхождения ключей и помнит порядок первого появления.
// Порядок нужен для детерминированного разрешения ничьих: при равных
// счетчиках выигрывает ключ, встреченный раньше.
type counter struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newCounter() *counter {
	return &counter{
		counts: make(map[string]int),
		order:  make(map[string]int),
	}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order[key] = c.next
		c.next++
	}
	c.counts[key]++
}

// top возвращает не больше limit ключей, отсортированных по убыванию
// счетчика, затем по порядку первого появления.
func (c *counter) top(limit int) []namedCount {
	out := make([]namedCount, 0, len(c.counts))
	for k, n := range c.counts {
		out = append(out, namedCount{Name: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return c.order[out[i].Name] < c.order[out[j].Name]
	})
	if len(out) > limit {
		out = out[:limit]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// winner возвращает единственного лидера, если его счетчик не меньше
// min, иначе nil.
func (c *counter) winner(min int) *namedCount {
	top := c.top(1)
	if len(top) == 0 || top[0].Count < min {
		return nil
	}
	return &top[0]
}
