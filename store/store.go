package store

// Store is the resolved entity snapshot for one conversion run. It is built
// by a collaborator (export loader, HTTP fetcher, cache) before rendering
// starts; the pipeline itself only performs synchronous lookups and treats
// "not found" as a normal, non-exceptional answer.
type Store struct {
	components map[string]*ComponentRecord
	assets     map[string]*AssetRecord
	datasets   map[string]*TableDataset
}

func New() *Store {
	return &Store{
		components: make(map[string]*ComponentRecord),
		assets:     make(map[string]*AssetRecord),
		datasets:   make(map[string]*TableDataset),
	}
}

func (s *Store) AddComponent(c *ComponentRecord) {
	s.components[c.ID] = c
}

func (s *Store) AddAsset(a *AssetRecord) {
	s.assets[a.ID] = a
}

func (s *Store) AddDataset(d *TableDataset) {
	s.datasets[d.ID] = d
}

// Resolve looks an id up among components first, then assets.
func (s *Store) Resolve(id string) (Entity, bool) {
	if c, ok := s.components[id]; ok {
		return c, true
	}
	if a, ok := s.assets[id]; ok {
		return a, true
	}
	return nil, false
}

func (s *Store) Component(id string) (*ComponentRecord, bool) {
	c, ok := s.components[id]
	return c, ok
}

func (s *Store) Asset(id string) (*AssetRecord, bool) {
	a, ok := s.assets[id]
	return a, ok
}

func (s *Store) Dataset(id string) (*TableDataset, bool) {
	d, ok := s.datasets[id]
	return d, ok
}

func (s *Store) Len() (components, assets, datasets int) {
	return len(s.components), len(s.assets), len(s.datasets)
}
