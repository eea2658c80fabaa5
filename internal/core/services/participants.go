package services

import (
	"sort"

	"whatsapp-wrapped/internal/domain"
)

// participantTable сопоставляет имена участников индексам итогового
// массива participants. В таблицу попадают только имена, на которые
// ссылается хоть одна выжившая статистика; имена отсортированы, чтобы
// индексы были стабильны между запусками.
type participantTable struct {
	names []string
	index map[string]int
}

func collectParticipants(senders []namedCount, frequent []namedMessage, pairs []namedSticker, winners ...*namedCount) *participantTable {
	seen := make(map[string]bool)
	for _, s := range senders {
		seen[s.Name] = true
	}
	for _, f := range frequent {
		seen[f.Author] = true
	}
	for _, p := range pairs {
		seen[p.Name] = true
	}
	for _, w := range winners {
		if w != nil {
			seen[w.Name] = true
		}
	}

	t := &participantTable{index: make(map[string]int)}
	for name := range seen {
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	for i, name := range t.names {
		t.index[name] = i
	}
	return t
}

// authorCount переводит именованный итог в доменный с индексом вместо
// имени. nil проходит насквозь.
func (t *participantTable) authorCount(nc *namedCount) *domain.AuthorCount {
	if nc == nil {
		return nil
	}
	return &domain.AuthorCount{NameIndex: t.index[nc.Name], Count: nc.Count}
}
