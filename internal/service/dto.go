package service

type CreatePostRequest struct {
	UserID  int64  `validate:"required,gt=0"`
	Title   string `validate:"required,max=200"`
	Content string `validate:"required"`
	Tags    string `validate:"max=200"`
}

type UpdatePostRequest struct {
	PostID  int64  `validate:"required,gt=0"`
	UserID  int64  `validate:"required,gt=0"`
	Title   string `validate:"required,max=200"`
	Content string `validate:"required"`
	Tags    string `validate:"max=200"`
}

type CreateCommentRequest struct {
	PostID int64  `validate:"required,gt=0"`
	UserID int64  `validate:"required,gt=0"`
	Body   string `validate:"required,max=2000"`
}

type ListPostsRequest struct {
	SearchText string
	Tag        string
	Page       int
}

type RegisterRequest struct {
	Username        string `validate:"required,min=3,max=50"`
	Email           string `validate:"required,email,max=255"`
	Password        string `validate:"required,min=6,max=128"`
	PasswordConfirm string `validate:"required,eqfield=Password"`
}
