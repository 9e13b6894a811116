package posts

import "errors"

var (
	ErrTitleRequired        = errors.New("missing required field title")
	ErrDateRequired         = errors.New("missing required field date")
	ErrDateInvalid          = errors.New("invalid date")
	ErrDraftInvalid         = errors.New("invalid draft value")
	ErrFeaturedImageInvalid = errors.New("invalid featured_image value")
	ErrSlugInvalid          = errors.New("cannot derive slug from path")
	ErrDuplicateSlug        = errors.New("duplicate slug")
	ErrContentRootNotDir    = errors.New("content root is not a directory")
	ErrAbsolutePathNoBase   = errors.New("absolute path provided without base path")
)
