package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/cris6h16/notes-api/internal/domain/entity"
)

var noteSortColumns = map[string]string{
	"id":         "id",
	"title":      "title",
	"updated_at": "updated_at",
}

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

// FindByIDAndOwnerID scopes the lookup to the owning user so that
// ownership filtering happens at the query boundary too, not only in
// the policy layer.
func (d *DefaultNoteRepository) FindByIDAndOwnerID(id, ownerID int64) (*entity.Note, error) {
	var note entity.Note
	err := d.db.Where("id = ? AND user_id = ?", id, ownerID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (d *DefaultNoteRepository) ExistsByIDAndOwnerID(id, ownerID int64) (bool, error) {
	var exists int
	err := d.db.
		Raw("SELECT EXISTS(SELECT 1 FROM notes WHERE id = ? AND user_id = ?)", id, ownerID).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (d *DefaultNoteRepository) FindPageByOwnerID(ownerID int64, page PageRequest) ([]*entity.Note, error) {
	page = page.Normalize()

	var notes []*entity.Note
	err := d.db.
		Where("user_id = ?", ownerID).
		Order(page.orderClause(noteSortColumns)).
		Offset(page.offset()).
		Limit(page.Size).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) Save(note *entity.Note) error {
	return d.db.Save(note).Error
}

func (d *DefaultNoteRepository) DeleteByIDAndOwnerID(id, ownerID int64) (bool, error) {
	res := d.db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&entity.Note{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
