package document

import (
	"context"
	"errors"
	"fmt"

	documentDomain "coven-backend/internal/domain/document"
	loanDomain "coven-backend/internal/domain/loan"
	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/internal/domain/uow"
	"coven-backend/internal/storage"
	"coven-backend/internal/usecase/timeline"
	"coven-backend/pkg/id"

	"gorm.io/gorm"
)

// Usecase handles document uploads. The blob write happens before the
// transaction; an aborted transaction leaves an orphan blob, never a
// dangling record.
type Usecase struct {
	uow   uow.UnitOfWork
	blobs storage.BlobStore
}

func NewUsecase(u uow.UnitOfWork, blobs storage.BlobStore) *Usecase {
	return &Usecase{uow: u, blobs: blobs}
}

// Upload stores the file body, records the document and appends a
// DocumentUploaded audit event.
func (u *Usecase) Upload(ctx context.Context, loanID, filename string, content []byte) (*documentDomain.Document, error) {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, err := r.Loans.GetByID(ctx, loanID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return loanDomain.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	path, err := u.blobs.Save(filename, content)
	if err != nil {
		return nil, fmt.Errorf("storing document: %w", err)
	}

	doc := &documentDomain.Document{
		ID:       id.New(id.PrefixDocument),
		LoanID:   loanID,
		Filename: filename,
		FilePath: path,
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}
		desc := fmt.Sprintf("Document %q uploaded to loan facility.", filename)
		_, err := timeline.Record(ctx, r.Timeline, loanID, timelineDomain.EventDocumentUploaded,
			"Document Uploaded", desc, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (u *Usecase) ListByLoan(ctx context.Context, loanID string) ([]documentDomain.Document, error) {
	var out []documentDomain.Document
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Documents.ListByLoan(ctx, loanID)
		return err
	})
	return out, err
}
