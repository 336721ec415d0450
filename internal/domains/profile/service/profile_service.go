package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	profile "bizcard-backend/internal/domains/profile"
	"bizcard-backend/pkg/occ"
	"bizcard-backend/pkg/retry"
)

type profileService struct {
	repo profile.Repository
}

func NewProfileService(repo profile.Repository) profile.Service {
	return &profileService{repo: repo}
}

// GetProfile assembles the full dashboard payload. A missing personal-info
// row is a normal state for a fresh account, not an error.
func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	personal, err := s.repo.GetPersonalInfo(ctx, userID)
	if err != nil && !errors.Is(err, profile.ErrSectionNotFound) {
		return nil, err
	}

	professional, err := s.repo.ListProfessionalInfo(ctx, userID)
	if err != nil {
		return nil, err
	}

	education, err := s.repo.ListEducation(ctx, userID)
	if err != nil {
		return nil, err
	}

	awards, err := s.repo.ListAwards(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.ListProductsServices(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &profile.Profile{
		PersonalInfo:     personal,
		ProfessionalInfo: professional,
		Education:        education,
		Awards:           awards,
		Products:         products,
	}, nil
}

// SavePersonalInfo upserts the single personal-info row. The retry wrapper
// covers the insert race: two first-time saves can both see "no row", one
// insert hits the unique user_id index, and the loser converges on the
// update path next attempt. A stale ExpectedVersion on the update path is
// not absorbed here; the conflict propagates so the client can re-fetch.
func (s *profileService) SavePersonalInfo(ctx context.Context, userID uuid.UUID, req profile.SavePersonalInfoRequest) (*profile.PersonalInfo, error) {
	return retry.DoResult(ctx, "profile.save_personal_info", retry.DefaultPolicy(), func(ctx context.Context) (*profile.PersonalInfo, error) {
		existing, err := s.repo.GetPersonalInfo(ctx, userID)
		if errors.Is(err, profile.ErrSectionNotFound) {
			now := time.Now()
			info := &profile.PersonalInfo{
				ID:        uuid.New(),
				UserID:    userID,
				FullName:  req.FullName,
				Headline:  req.Headline,
				Bio:       req.Bio,
				Phone:     req.Phone,
				Email:     req.Email,
				Website:   req.Website,
				Location:  req.Location,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.repo.InsertPersonalInfo(ctx, info); err != nil {
				return nil, err
			}
			return info, nil
		}
		if err != nil {
			return nil, err
		}

		existing.FullName = req.FullName
		existing.Headline = req.Headline
		existing.Bio = req.Bio
		existing.Phone = req.Phone
		existing.Email = req.Email
		existing.Website = req.Website
		existing.Location = req.Location

		newVersion, err := s.repo.UpdatePersonalInfo(ctx, existing, req.ExpectedVersion)
		if err != nil {
			if occ.IsConflict(err) {
				// The client's view is stale. Re-running with the same
				// expected version cannot succeed, so fail fast.
				return nil, retry.Terminal(err)
			}
			return nil, err
		}

		existing.Version = newVersion
		existing.UpdatedAt = time.Now()
		return existing, nil
	})
}

// SaveProfessionalInfo creates or replaces a work entry. Updates opt in to
// automatic conflict retry: the request carries the full replacement payload,
// so on a version conflict we adopt the current version reported by the
// conflict and reapply. The editor who saves last wins the entry.
func (s *profileService) SaveProfessionalInfo(ctx context.Context, userID uuid.UUID, req profile.SaveProfessionalInfoRequest) (*profile.ProfessionalInfo, error) {
	if req.EndYear != nil && *req.EndYear < req.StartYear {
		return nil, profile.ErrInvalidYear
	}

	now := time.Now()
	entry := &profile.ProfessionalInfo{
		UserID:    userID,
		Company:   req.Company,
		Title:     req.Title,
		StartYear: req.StartYear,
		EndYear:   req.EndYear,
		IsPrimary: req.IsPrimary,
		UpdatedAt: now,
	}

	if req.ID == nil {
		entry.ID = uuid.New()
		entry.CreatedAt = now
		if err := s.repo.InsertProfessionalInfo(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	entry.ID = *req.ID
	expected := req.ExpectedVersion

	return retry.DoResult(ctx, "profile.save_professional_info", retry.OptimisticLockPolicy(), func(ctx context.Context) (*profile.ProfessionalInfo, error) {
		newVersion, err := s.repo.UpdateProfessionalInfo(ctx, entry, expected)
		if err != nil {
			if ce, ok := occ.AsConflict(err); ok {
				expected = ce.CurrentVersion
			}
			return nil, err
		}
		entry.Version = newVersion
		entry.UpdatedAt = time.Now()
		return entry, nil
	})
}

func (s *profileService) DeleteProfessionalInfo(ctx context.Context, id, userID uuid.UUID) error {
	return s.mapDelete(s.repo.DeleteProfessionalInfo(ctx, id, userID))
}

// SaveEducation mirrors SaveProfessionalInfo.
func (s *profileService) SaveEducation(ctx context.Context, userID uuid.UUID, req profile.SaveEducationRequest) (*profile.Education, error) {
	now := time.Now()
	entry := &profile.Education{
		UserID:        userID,
		Institution:   req.Institution,
		Degree:        req.Degree,
		Field:         req.Field,
		YearCompleted: req.YearCompleted,
		UpdatedAt:     now,
	}

	if req.ID == nil {
		entry.ID = uuid.New()
		entry.CreatedAt = now
		if err := s.repo.InsertEducation(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	entry.ID = *req.ID
	expected := req.ExpectedVersion

	return retry.DoResult(ctx, "profile.save_education", retry.OptimisticLockPolicy(), func(ctx context.Context) (*profile.Education, error) {
		newVersion, err := s.repo.UpdateEducation(ctx, entry, expected)
		if err != nil {
			if ce, ok := occ.AsConflict(err); ok {
				expected = ce.CurrentVersion
			}
			return nil, err
		}
		entry.Version = newVersion
		entry.UpdatedAt = time.Now()
		return entry, nil
	})
}

func (s *profileService) DeleteEducation(ctx context.Context, id, userID uuid.UUID) error {
	return s.mapDelete(s.repo.DeleteEducation(ctx, id, userID))
}

// SaveAward mirrors SaveProfessionalInfo.
func (s *profileService) SaveAward(ctx context.Context, userID uuid.UUID, req profile.SaveAwardRequest) (*profile.Award, error) {
	now := time.Now()
	entry := &profile.Award{
		UserID:       userID,
		Title:        req.Title,
		Issuer:       req.Issuer,
		DateReceived: req.DateReceived,
		Description:  req.Description,
		UpdatedAt:    now,
	}

	if req.ID == nil {
		entry.ID = uuid.New()
		entry.CreatedAt = now
		if err := s.repo.InsertAward(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	entry.ID = *req.ID
	expected := req.ExpectedVersion

	return retry.DoResult(ctx, "profile.save_award", retry.OptimisticLockPolicy(), func(ctx context.Context) (*profile.Award, error) {
		newVersion, err := s.repo.UpdateAward(ctx, entry, expected)
		if err != nil {
			if ce, ok := occ.AsConflict(err); ok {
				expected = ce.CurrentVersion
			}
			return nil, err
		}
		entry.Version = newVersion
		entry.UpdatedAt = time.Now()
		return entry, nil
	})
}

func (s *profileService) DeleteAward(ctx context.Context, id, userID uuid.UUID) error {
	return s.mapDelete(s.repo.DeleteAward(ctx, id, userID))
}

// SaveProductService mirrors SaveProfessionalInfo.
func (s *profileService) SaveProductService(ctx context.Context, userID uuid.UUID, req profile.SaveProductServiceRequest) (*profile.ProductService, error) {
	now := time.Now()
	entry := &profile.ProductService{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PhotoURL:    req.PhotoURL,
		WebsiteLink: req.WebsiteLink,
		UpdatedAt:   now,
	}

	if req.ID == nil {
		entry.ID = uuid.New()
		entry.CreatedAt = now
		if err := s.repo.InsertProductService(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	entry.ID = *req.ID
	expected := req.ExpectedVersion

	return retry.DoResult(ctx, "profile.save_product_service", retry.OptimisticLockPolicy(), func(ctx context.Context) (*profile.ProductService, error) {
		newVersion, err := s.repo.UpdateProductService(ctx, entry, expected)
		if err != nil {
			if ce, ok := occ.AsConflict(err); ok {
				expected = ce.CurrentVersion
			}
			return nil, err
		}
		entry.Version = newVersion
		entry.UpdatedAt = time.Now()
		return entry, nil
	})
}

func (s *profileService) DeleteProductService(ctx context.Context, id, userID uuid.UUID) error {
	return s.mapDelete(s.repo.DeleteProductService(ctx, id, userID))
}

func (s *profileService) mapDelete(err error) error {
	if errors.Is(err, occ.ErrNotFound) {
		return profile.ErrSectionNotFound
	}
	return err
}
