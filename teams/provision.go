package teams

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"workspace/models"
	"workspace/onboarding"
)

const (
	WelcomeCollectionName = "Welcome"
	welcomeDescription    = "This collection is a quick guide to what your workspace can do. Feel free to delete it once you are familiar with the basics."

	// welcome documents are written in the current editor schema
	documentVersion = 2
)

// ProvisionFirstCollection creates the Welcome collection for team and fills
// it with the onboarding documents, published by userID. Either everything is
// created or, on any failure, nothing is.
func (s *Service) ProvisionFirstCollection(ctx context.Context, team *models.Team, userID string) (*models.Collection, error) {
	var (
		collection models.Collection
		user       *models.User
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = models.FindTeamUser(tx, team.ID, userID); err != nil {
			return err
		}

		permission := models.CollectionPermissionReadWrite
		collection = models.Collection{
			Name:        WelcomeCollectionName,
			Description: welcomeDescription,
			TeamID:      team.ID,
			CreatedByID: userID,
			Permission:  &permission,
			Sort:        datatypes.NewJSONType(models.DefaultCollectionSort),
		}
		if err := tx.Create(&collection).Error; err != nil {
			return fmt.Errorf("create collection: %w", err)
		}

		for _, title := range onboarding.Topics {
			if err := s.createWelcomeDocument(tx, &collection, title, userID); err != nil {
				return err
			}
		}

		return tx.First(&collection, "id = ?", collection.ID).Error
	})
	if err != nil {
		return nil, &TransactionError{Op: "provision first collection", Err: err}
	}

	s.logger.Info("provisioned first collection",
		zap.String("team_id", team.ID),
		zap.String("collection_id", collection.ID),
		zap.String("user_id", userID),
		zap.String("user", user.DisplayName()),
	)
	return &collection, nil
}

func (s *Service) createWelcomeDocument(tx *gorm.DB, collection *models.Collection, title, userID string) error {
	text, err := s.content.Read(title)
	if err != nil {
		return err
	}

	doc := models.Document{
		Title:            title,
		Text:             text,
		Version:          documentVersion,
		IsWelcome:        true,
		ParentDocumentID: nil,
		CollectionID:     &collection.ID,
		TeamID:           collection.TeamID,
		CreatedByID:      userID,
		LastModifiedByID: userID,
	}
	if err := tx.Create(&doc).Error; err != nil {
		return fmt.Errorf("create document %q: %w", title, err)
	}
	if err := doc.Publish(tx, userID); err != nil {
		return fmt.Errorf("publish document %q: %w", title, err)
	}
	return nil
}
