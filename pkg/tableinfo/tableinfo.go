package tableinfo

const (
	PostsTableName = "posts"

	PostIDColumn        = "id"
	PostTitleColumn     = "title"
	PostContentColumn   = "content"
	PostTagsColumn      = "tags"
	PostUserIDColumn    = "user_id"
	PostCreatedAtColumn = "created_at"
)

const (
	CommentsTableName = "comments"

	CommentIDColumn        = "id"
	CommentPostIDColumn    = "post_id"
	CommentUserIDColumn    = "user_id"
	CommentBodyColumn      = "body"
	CommentCreatedAtColumn = "created_at"
)

const (
	UsersTableName = "users"

	UserIDColumn           = "id"
	UserUsernameColumn     = "username"
	UserEmailColumn        = "email"
	UserPasswordHashColumn = "password_hash"
	UserCreatedAtColumn    = "created_at"
)

const (
	SessionsTableName = "sessions"

	SessionTokenColumn     = "token"
	SessionUserIDColumn    = "user_id"
	SessionExpiresAtColumn = "expires_at"
	SessionCreatedAtColumn = "created_at"
)

const (
	TagsTableName = "tags"

	TagIDColumn   = "id"
	TagNameColumn = "name"

	PostTagsTableName   = "post_tags"
	PostTagPostIDColumn = "post_id"
	PostTagTagIDColumn  = "tag_id"
)

const (
	CategoriesTableName = "categories"

	CategoryIDColumn   = "id"
	CategoryNameColumn = "name"
	CategorySlugColumn = "slug"
)
