package registration

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stake-plus/govtool/src/proposals"
	"github.com/stake-plus/govtool/src/types"
)

// Store persists DRep registrations and answers voter info queries.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the registration of dRepID, or nil when there is none.
func (s *Store) Get(ctx context.Context, dRepID string) (*types.DRepRegistration, error) {
	var reg types.DRepRegistration
	err := s.db.WithContext(ctx).Where("drep_id = ?", dRepID).First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// VoterInfo reports the active registration kind of dRepID.
func (s *Store) VoterInfo(ctx context.Context, dRepID string) (proposals.VoterInfo, error) {
	var info proposals.VoterInfo
	reg, err := s.Get(ctx, dRepID)
	if err != nil || reg == nil || !reg.Active {
		return info, err
	}
	switch reg.Kind {
	case types.RegistrationDRep:
		info.IsRegisteredAsDRep = true
	case types.RegistrationSoleVoter:
		info.IsRegisteredAsSoleVoter = true
	}
	return info, nil
}

// Save inserts or replaces the registration keyed by DRepID.
func (s *Store) Save(ctx context.Context, reg *types.DRepRegistration) error {
	reg.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "drep_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"kind", "name", "metadata_url", "metadata_hash", "tx_hash", "active", "updated_at",
		}),
	}).Create(reg).Error
}
