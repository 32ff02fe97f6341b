package sengoku

import (
	"encoding/json"
	"fmt"
	"io/fs"
)

type provinceFile struct {
	Provinces []struct {
		ID          int      `json:"id"`
		Name        string   `json:"name"`
		Position    Position `json:"position"`
		Terrain     Terrain  `json:"terrain"`
		Adjacent    []int    `json:"adjacent"`
		HasCastle   *bool    `json:"has_castle"`
		MaxPeasants int      `json:"max_peasants"`
	} `json:"provinces"`
}

type daimyoFile struct {
	Daimyo []struct {
		ID               int    `json:"id"`
		Name             string `json:"name"`
		Clan             string `json:"clan"`
		Age              int    `json:"age"`
		Health           int    `json:"health"`
		Ambition         int    `json:"ambition"`
		Luck             int    `json:"luck"`
		Charm            int    `json:"charm"`
		Intelligence     int    `json:"intelligence"`
		WarSkill         int    `json:"war_skill"`
		StartingProvince int    `json:"starting_province"`
	} `json:"daimyo"`
}

type generalFile struct {
	Generals []struct {
		ID             int    `json:"id"`
		Name           string `json:"name"`
		StartingDaimyo int    `json:"starting_daimyo"`
		Age            int    `json:"age"`
		Health         int    `json:"health"`
		WarSkill       int    `json:"war_skill"`
		Leadership     int    `json:"leadership"`
		Politics       int    `json:"politics"`
		Intelligence   int    `json:"intelligence"`
	} `json:"generals"`
}

func readJSON(fsys fs.FS, name string, v any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// LoadScenario reads provinces.json, daimyo.json, generals.json and
// events.json from fsys. The first daimyo is the human player. Any missing
// file or inconsistent reference is an error.
func LoadScenario(fsys fs.FS) (*GameState, *EventCatalog, error) {
	var pf provinceFile
	var df daimyoFile
	var gf generalFile
	catalog := &EventCatalog{}
	if err := readJSON(fsys, "provinces.json", &pf); err != nil {
		return nil, nil, err
	}
	if err := readJSON(fsys, "daimyo.json", &df); err != nil {
		return nil, nil, err
	}
	if err := readJSON(fsys, "generals.json", &gf); err != nil {
		return nil, nil, err
	}
	if err := readJSON(fsys, "events.json", catalog); err != nil {
		return nil, nil, err
	}

	gs := NewGameState()
	if len(pf.Provinces) == 0 {
		return nil, nil, fmt.Errorf("provinces.json: no provinces")
	}
	for _, raw := range pf.Provinces {
		if raw.ID <= 0 {
			return nil, nil, fmt.Errorf("provinces.json: invalid id %d", raw.ID)
		}
		if _, dup := gs.Provinces[raw.ID]; dup {
			return nil, nil, fmt.Errorf("provinces.json: duplicate id %d", raw.ID)
		}
		terrain := raw.Terrain
		if terrain == "" {
			terrain = Plains
		}
		if !terrain.Valid() {
			return nil, nil, fmt.Errorf("provinces.json: province %d has unknown terrain %q", raw.ID, raw.Terrain)
		}
		p := NewProvince(raw.ID, raw.Name, terrain, raw.MaxPeasants)
		p.Position = raw.Position
		p.Adjacent = append([]int(nil), raw.Adjacent...)
		if raw.HasCastle != nil {
			p.HasCastle = *raw.HasCastle
		}
		gs.Provinces[p.ID] = p
	}
	for _, p := range gs.Provinces {
		for _, adj := range p.Adjacent {
			other := gs.Provinces[adj]
			if other == nil {
				return nil, nil, fmt.Errorf("provinces.json: province %d lists unknown neighbour %d", p.ID, adj)
			}
			if !other.IsAdjacent(p.ID) {
				return nil, nil, fmt.Errorf("provinces.json: adjacency %d-%d is not symmetric", p.ID, adj)
			}
		}
	}

	if len(df.Daimyo) == 0 {
		return nil, nil, fmt.Errorf("daimyo.json: no daimyo")
	}
	for i, raw := range df.Daimyo {
		if raw.ID < MinLordID || raw.ID > MaxLordID {
			return nil, nil, fmt.Errorf("daimyo.json: id %d outside %d-%d", raw.ID, MinLordID, MaxLordID)
		}
		if _, dup := gs.Lords[raw.ID]; dup {
			return nil, nil, fmt.Errorf("daimyo.json: duplicate id %d", raw.ID)
		}
		p := gs.Provinces[raw.StartingProvince]
		if p == nil {
			return nil, nil, fmt.Errorf("daimyo.json: %s starts in unknown province %d", raw.Name, raw.StartingProvince)
		}
		if p.Owner != 0 {
			return nil, nil, fmt.Errorf("daimyo.json: province %d assigned to two daimyo", p.ID)
		}
		l := &Lord{
			ID:           raw.ID,
			Name:         raw.Name,
			Clan:         raw.Clan,
			IsPlayer:     i == 0,
			Alive:        true,
			Age:          orDefault(raw.Age, DefaultLordAge),
			Health:       orDefault(raw.Health, DefaultLordHealth),
			Ambition:     raw.Ambition,
			Luck:         raw.Luck,
			Charm:        raw.Charm,
			Intelligence: raw.Intelligence,
			WarSkill:     raw.WarSkill,
			Capital:      p.ID,
		}
		gs.Lords[l.ID] = l
		gs.SetOwner(p.ID, l.ID)
		p.Governor = l.ID
		if i == 0 {
			gs.PlayerLord = l.ID
		}
	}

	for _, raw := range gf.Generals {
		if raw.ID < GeneralIDBase {
			return nil, nil, fmt.Errorf("generals.json: id %d below %d", raw.ID, GeneralIDBase)
		}
		if _, dup := gs.Generals[raw.ID]; dup {
			return nil, nil, fmt.Errorf("generals.json: duplicate id %d", raw.ID)
		}
		if raw.StartingDaimyo != 0 && gs.Lords[raw.StartingDaimyo] == nil {
			return nil, nil, fmt.Errorf("generals.json: %s serves unknown daimyo %d", raw.Name, raw.StartingDaimyo)
		}
		gs.Generals[raw.ID] = &General{
			ID:           raw.ID,
			Name:         raw.Name,
			Lord:         raw.StartingDaimyo,
			Loyalty:      DefaultGeneralLoyalty,
			Age:          orDefault(raw.Age, DefaultGeneralAge),
			Health:       orDefault(raw.Health, DefaultLordHealth),
			Alive:        true,
			WarSkill:     raw.WarSkill,
			Leadership:   raw.Leadership,
			Politics:     raw.Politics,
			Intelligence: raw.Intelligence,
			Available:    true,
		}
	}

	seen := make(map[string]bool)
	for i := range catalog.Events {
		ev := &catalog.Events[i]
		if err := ev.validate(); err != nil {
			return nil, nil, fmt.Errorf("events.json: %w", err)
		}
		if seen[ev.ID] {
			return nil, nil, fmt.Errorf("events.json: duplicate event %s", ev.ID)
		}
		seen[ev.ID] = true
		for _, c := range ev.Choices {
			if c.RecruitGeneral != 0 && gs.Generals[c.RecruitGeneral] == nil {
				return nil, nil, fmt.Errorf("events.json: event %s recruits unknown general %d", ev.ID, c.RecruitGeneral)
			}
		}
	}

	gs.InitRelations()
	gs.UpdateAllStatistics()
	return gs, catalog, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
