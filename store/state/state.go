package state

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"

	"lever/core"
)

type stateStore struct {
	db *db.DB
}

// New new state store
func New(db *db.DB) core.IStateStore {
	return &stateStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		if err := tx.AutoMigrate(core.PoolState{}).Error; err != nil {
			return err
		}
		if err := tx.AutoMigrate(core.Vault{}).Error; err != nil {
			return err
		}
		if err := tx.AutoMigrate(core.RangePosition{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Save flushes a snapshot wholesale: the previous rows are replaced inside
// one transaction so a reader never sees a half-written snapshot.
func (s *stateStore) Save(ctx context.Context, state *core.State) error {
	return s.db.Tx(func(tx *db.DB) error {
		update := tx.Update()

		if err := update.Delete(core.PoolState{}).Error; err != nil {
			return err
		}
		if err := update.Delete(core.Vault{}).Error; err != nil {
			return err
		}
		if err := update.Delete(core.RangePosition{}).Error; err != nil {
			return err
		}

		pool := state.Pool
		pool.ID = 1
		if err := update.Create(&pool).Error; err != nil {
			return err
		}

		for _, v := range state.Vaults {
			vault := *v
			vault.ID = 0
			if err := update.Create(&vault).Error; err != nil {
				return err
			}
		}

		for _, p := range state.Positions {
			position := *p
			if err := update.Create(&position).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Load rebuilds the engine state from the last snapshot. A fresh database
// yields a fresh state.
func (s *stateStore) Load(ctx context.Context) (*core.State, error) {
	state := core.NewState()

	var pool core.PoolState
	if err := s.db.View().First(&pool).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return state, nil
		}
		return nil, err
	}
	state.Pool = pool

	var vaults []*core.Vault
	if err := s.db.View().Find(&vaults).Error; err != nil {
		return nil, err
	}
	for _, v := range vaults {
		v.PositionIDs = nil
		state.Vaults[v.UserID] = v
	}

	var positions []*core.RangePosition
	if err := s.db.View().Find(&positions).Error; err != nil {
		return nil, err
	}
	for _, p := range positions {
		state.Positions[p.ID] = p
		if p.ID >= state.NextPositionID {
			state.NextPositionID = p.ID + 1
		}
		if v, ok := state.Vaults[p.VaultID]; ok {
			v.PositionIDs = append(v.PositionIDs, p.ID)
		}
	}

	return state, nil
}
