package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/infrastructure/models"
)

// CompanyRepository stores company agents and opening hours
type CompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) CreateAgent(ctx context.Context, a *entities.CompanyAgent) error {
	m := &models.CompanyAgent{
		ID:                a.ID,
		CompanyID:         a.CompanyID,
		FullName:          a.FullName,
		PhoneNumber:       a.PhoneNumber.Ptr(),
		ProfilePictureURL: a.ProfilePictureURL.Ptr(),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Omit("Company").Create(m).Error; err != nil {
		return err
	}
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

// GetAgent finds an agent of the given company. Agents of other companies are not found.
func (r *CompanyRepository) GetAgent(ctx context.Context, companyID, agentID uuid.UUID) (*entities.CompanyAgent, error) {
	var m models.CompanyAgent
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("id = ? AND company_id = ?", agentID, companyID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return agentToEntity(&m), nil
}

func (r *CompanyRepository) UpdateAgent(ctx context.Context, a *entities.CompanyAgent) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.CompanyAgent{}).
		Where("id = ? AND company_id = ?", a.ID, a.CompanyID).
		Updates(map[string]interface{}{
			"full_name":           a.FullName,
			"phone_number":        a.PhoneNumber.Ptr(),
			"profile_picture_url": a.ProfilePictureURL.Ptr(),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) ListAgents(ctx context.Context, companyID uuid.UUID) ([]entities.CompanyAgent, error) {
	var rows []models.CompanyAgent
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.CompanyAgent, 0, len(rows))
	for i := range rows {
		out = append(out, *agentToEntity(&rows[i]))
	}
	return out, nil
}

func (r *CompanyRepository) CreateAvailability(ctx context.Context, entries []*entities.CompanyAvailability) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.CompanyAvailability, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.CompanyAvailability{
			ID:        e.ID,
			CompanyID: e.CompanyID,
			StartDay:  e.StartDay,
			LastDay:   e.LastDay,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return GetDB(ctx, r.db).WithContext(ctx).Omit("Company").Create(&rows).Error
}

func (r *CompanyRepository) GetAvailabilityByDays(ctx context.Context, companyID uuid.UUID, startDay, lastDay string) (*entities.CompanyAvailability, error) {
	var m models.CompanyAvailability
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("company_id = ? AND start_day = ? AND last_day = ?", companyID, startDay, lastDay).
		Order("created_at ASC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return availabilityToEntity(&m), nil
}

func (r *CompanyRepository) UpdateAvailability(ctx context.Context, e *entities.CompanyAvailability) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.CompanyAvailability{}).
		Where("id = ? AND company_id = ?", e.ID, e.CompanyID).
		Updates(map[string]interface{}{
			"start_day":  e.StartDay,
			"last_day":   e.LastDay,
			"start_time": e.StartTime,
			"end_time":   e.EndTime,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) ListAvailability(ctx context.Context, companyID uuid.UUID) ([]entities.CompanyAvailability, error) {
	var rows []models.CompanyAvailability
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.CompanyAvailability, 0, len(rows))
	for i := range rows {
		out = append(out, *availabilityToEntity(&rows[i]))
	}
	return out, nil
}

func agentToEntity(m *models.CompanyAgent) *entities.CompanyAgent {
	return &entities.CompanyAgent{
		ID:                m.ID,
		CompanyID:         m.CompanyID,
		FullName:          m.FullName,
		PhoneNumber:       null.StringFromPtr(m.PhoneNumber),
		ProfilePictureURL: null.StringFromPtr(m.ProfilePictureURL),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func availabilityToEntity(m *models.CompanyAvailability) *entities.CompanyAvailability {
	return &entities.CompanyAvailability{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		StartDay:  m.StartDay,
		LastDay:   m.LastDay,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
