package server

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"score-tracker/internal/game"
)

// registry keeps the known players and player groups in memory. When a
// database is configured the registry is a write-through mirror; without
// one it is the whole truth, which keeps tests and casual runs simple.
type registry struct {
	mu         sync.Mutex
	nextPlayer int
	nextGroup  int
	players    map[string]game.Player
	groups     map[string]game.PlayerGroup
}

func newRegistry() *registry {
	return &registry{
		nextPlayer: 1,
		nextGroup:  1,
		players:    make(map[string]game.Player),
		groups:     make(map[string]game.PlayerGroup),
	}
}

func (r *registry) CreatePlayer(name, alias string) (game.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if strings.EqualFold(p.Name, name) {
			return game.Player{}, errors.New("player name already taken")
		}
	}
	player := game.Player{
		ID:    fmt.Sprintf("player-%d", r.nextPlayer),
		Name:  name,
		Alias: alias,
	}
	r.nextPlayer++
	r.players[player.ID] = player
	return player, nil
}

func (r *registry) GetPlayer(id string) (game.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[id]
	return player, ok
}

func (r *registry) ListPlayers() []game.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]game.Player, 0, len(r.players))
	for _, p := range r.players {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return idSortKey(list[i].ID) < idSortKey(list[j].ID)
	})
	return list
}

// UpdatePlayerID renames a player after persistence assigns the durable id.
func (r *registry) UpdatePlayerID(oldID, newID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if oldID == newID {
		return
	}
	player, ok := r.players[oldID]
	if !ok {
		return
	}
	delete(r.players, oldID)
	player.ID = newID
	r.players[newID] = player
}

// RestorePlayer loads a persisted player, bumping the counter past it.
func (r *registry) RestorePlayer(player game.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[player.ID] = player
	if id := idSortKey(player.ID); id >= r.nextPlayer {
		r.nextPlayer = id + 1
	}
}

func (r *registry) CreateGroup(name string) (game.PlayerGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.groups {
		if strings.EqualFold(g.Name, name) {
			return game.PlayerGroup{}, errors.New("group name already taken")
		}
	}
	group := game.PlayerGroup{
		ID:   fmt.Sprintf("group-%d", r.nextGroup),
		Name: name,
	}
	r.nextGroup++
	r.groups[group.ID] = group
	return group, nil
}

func (r *registry) GetGroup(id string) (game.PlayerGroup, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	group, ok := r.groups[id]
	return group, ok
}

func (r *registry) ListGroups() []game.PlayerGroup {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]game.PlayerGroup, 0, len(r.groups))
	for _, g := range r.groups {
		list = append(list, g)
	}
	sort.Slice(list, func(i, j int) bool {
		return idSortKey(list[i].ID) < idSortKey(list[j].ID)
	})
	return list
}

func (r *registry) AddPlayerToGroup(groupID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	group, ok := r.groups[groupID]
	if !ok {
		return errors.New("group not found")
	}
	if _, ok := r.players[playerID]; !ok {
		return errors.New("player not found")
	}
	for _, id := range group.PlayerIDs {
		if id == playerID {
			return nil
		}
	}
	group.PlayerIDs = append(group.PlayerIDs, playerID)
	r.groups[groupID] = group
	return nil
}

func (r *registry) UpdateGroupID(oldID, newID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if oldID == newID {
		return
	}
	group, ok := r.groups[oldID]
	if !ok {
		return
	}
	delete(r.groups, oldID)
	group.ID = newID
	r.groups[newID] = group
}

func (r *registry) RestoreGroup(group game.PlayerGroup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[group.ID] = group
	if id := idSortKey(group.ID); id >= r.nextGroup {
		r.nextGroup = id + 1
	}
}

func idSortKey(id string) int {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return 0
	}
	var value int
	if _, err := fmt.Sscanf(parts[len(parts)-1], "%d", &value); err != nil {
		return 0
	}
	return value
}
