package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/recallwire/cms-api/pkg/models"
)

// --- Posts ---

const postColumns = `id, title, slug, content, excerpt, status, category_id, author_name_id,
	meta_title, meta_description, featured_image_url, published_at, created_at, updated_at`

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Status,
		&p.CategoryID, &p.AuthorNameID, &p.MetaTitle, &p.MetaDescription,
		&p.FeaturedImageURL, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) ListPosts(ctx context.Context, filter PostFilter) ([]*models.Post, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.CategoryID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIdx))
		args = append(args, filter.CategoryID)
		argIdx++
	}
	if filter.AuthorNameID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("author_name_id = $%d", argIdx))
		args = append(args, filter.AuthorNameID)
		argIdx++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM posts WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	dataQuery := fmt.Sprintf(
		`SELECT `+postColumns+` FROM posts WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

func (s *PostgresStore) GetPost(ctx context.Context, ref Ref) (*models.Post, error) {
	query, arg := refQuery(`SELECT `+postColumns+` FROM posts`, ref)
	post, err := scanPost(s.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *PostgresStore) CreatePost(ctx context.Context, post *models.Post) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO posts (id, title, slug, content, excerpt, status, category_id, author_name_id,
		   meta_title, meta_description, featured_image_url, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		post.ID, post.Title, post.Slug, post.Content, post.Excerpt, post.Status,
		post.CategoryID, post.AuthorNameID, post.MetaTitle, post.MetaDescription,
		post.FeaturedImageURL, post.PublishedAt, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		if isForeignKeyError(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdatePost(ctx context.Context, id uuid.UUID, upd PostUpdate) (*models.Post, error) {
	b := newSetBuilder()
	if upd.Title != nil {
		b.set("title", *upd.Title)
	}
	if upd.Slug != nil {
		b.set("slug", *upd.Slug)
	}
	if upd.Content != nil {
		b.set("content", *upd.Content)
	}
	if upd.Excerpt != nil {
		b.set("excerpt", *upd.Excerpt)
	}
	if upd.Status != nil {
		b.set("status", *upd.Status)
	}
	if upd.CategoryID != nil {
		b.set("category_id", *upd.CategoryID)
	}
	if upd.AuthorNameID != nil {
		b.set("author_name_id", *upd.AuthorNameID)
	}
	if upd.MetaTitle != nil {
		b.set("meta_title", *upd.MetaTitle)
	}
	if upd.MetaDescription != nil {
		b.set("meta_description", *upd.MetaDescription)
	}
	if upd.FeaturedImageURL != nil {
		b.set("featured_image_url", *upd.FeaturedImageURL)
	}
	if upd.PublishedAt != nil {
		b.set("published_at", *upd.PublishedAt)
	}
	if b.empty() {
		return s.GetPost(ctx, Ref{ID: id})
	}
	b.raw("updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = $%d RETURNING `+postColumns,
		b.clause(), b.next())
	post, err := scanPost(s.pool.QueryRow(ctx, query, b.with(id)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		if isForeignKeyError(err) {
			return nil, ErrInvalidReference
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// DeletePost removes the post's tag links and then the post, in one
// transaction so a failed post delete leaves the links intact.
func (s *PostgresStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete post: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete post tag links: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) CountPostsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count posts by category: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_name_id = $1`, authorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count posts by author: %w", err)
	}
	return n, nil
}

// --- Post↔Tag links ---

func (s *PostgresStore) ListPostTags(ctx context.Context, postID uuid.UUID) ([]*models.Tag, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT t.id, t.name, t.slug, t.created_at
		 FROM tags t JOIN post_tags pt ON pt.tag_id = t.id
		 WHERE pt.post_id = $1 ORDER BY t.name`, postID)
	if err != nil {
		return nil, fmt.Errorf("list post tags: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post tag: %w", err)
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

// ReplacePostTags swaps the post's entire tag set for tagIDs. This is a
// replace, not a merge: links absent from tagIDs are removed.
func (s *PostgresStore) ReplacePostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace post tags: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	for _, tagID := range tagIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, tagID)
		if err != nil {
			if isForeignKeyError(err) {
				return ErrInvalidReference
			}
			return fmt.Errorf("insert post tag link: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) RemovePostTag(ctx context.Context, postID, tagID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM post_tags WHERE post_id = $1 AND tag_id = $2`, postID, tagID)
	if err != nil {
		return fmt.Errorf("remove post tag link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountTagLinks(ctx context.Context, tagID uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM post_tags WHERE tag_id = $1`, tagID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tag links: %w", err)
	}
	return n, nil
}

// --- Tags ---

func (s *PostgresStore) ListTags(ctx context.Context, limit, offset int) ([]*models.Tag, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tags`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, name, slug, created_at FROM tags ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, &t)
	}
	return tags, total, rows.Err()
}

func (s *PostgresStore) GetTag(ctx context.Context, ref Ref) (*models.Tag, error) {
	query, arg := refQuery(`SELECT id, name, slug, created_at FROM tags`, ref)
	var t models.Tag
	err := s.pool.QueryRow(ctx, query, arg).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) CreateTag(ctx context.Context, t *models.Tag) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tags (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, t.Slug, t.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateTag(ctx context.Context, id uuid.UUID, upd TagUpdate) (*models.Tag, error) {
	b := newSetBuilder()
	if upd.Name != nil {
		b.set("name", *upd.Name)
	}
	if upd.Slug != nil {
		b.set("slug", *upd.Slug)
	}
	if b.empty() {
		return s.GetTag(ctx, Ref{ID: id})
	}

	query := fmt.Sprintf(`UPDATE tags SET %s WHERE id = $%d RETURNING id, name, slug, created_at`,
		b.clause(), b.next())
	var t models.Tag
	err := s.pool.QueryRow(ctx, query, b.with(id)...).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Authors ---

const authorColumns = `id, name, slug, bio, avatar_url, is_active, created_at, updated_at`

func scanAuthor(row pgx.Row) (*models.Author, error) {
	var a models.Author
	err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.Bio, &a.AvatarURL,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) ListAuthors(ctx context.Context, filter AuthorFilter) ([]*models.Author, int, error) {
	where := "is_active = TRUE"
	if filter.IncludeInactive {
		where = "TRUE"
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM authors WHERE "+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE `+where+` ORDER BY name LIMIT $1 OFFSET $2`,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var authors []*models.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, total, rows.Err()
}

func (s *PostgresStore) GetAuthor(ctx context.Context, ref Ref) (*models.Author, error) {
	query, arg := refQuery(`SELECT `+authorColumns+` FROM authors`, ref)
	author, err := scanAuthor(s.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	return author, nil
}

func (s *PostgresStore) CreateAuthor(ctx context.Context, a *models.Author) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO authors (id, name, slug, bio, avatar_url, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Name, a.Slug, a.Bio, a.AvatarURL, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create author: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateAuthor(ctx context.Context, id uuid.UUID, upd AuthorUpdate) (*models.Author, error) {
	b := newSetBuilder()
	if upd.Name != nil {
		b.set("name", *upd.Name)
	}
	if upd.Slug != nil {
		b.set("slug", *upd.Slug)
	}
	if upd.Bio != nil {
		b.set("bio", *upd.Bio)
	}
	if upd.AvatarURL != nil {
		b.set("avatar_url", *upd.AvatarURL)
	}
	if upd.IsActive != nil {
		b.set("is_active", *upd.IsActive)
	}
	if b.empty() {
		return s.GetAuthor(ctx, Ref{ID: id})
	}
	b.raw("updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE authors SET %s WHERE id = $%d RETURNING `+authorColumns,
		b.clause(), b.next())
	author, err := scanAuthor(s.pool.QueryRow(ctx, query, b.with(id)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("update author: %w", err)
	}
	return author, nil
}

func (s *PostgresStore) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Categories ---

const categoryColumns = `id, name, slug, description, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, total, rows.Err()
}

func (s *PostgresStore) GetCategory(ctx context.Context, ref Ref) (*models.Category, error) {
	query, arg := refQuery(`SELECT `+categoryColumns+` FROM categories`, ref)
	category, err := scanCategory(s.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (s *PostgresStore) CreateCategory(ctx context.Context, c *models.Category) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO categories (id, name, slug, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Slug, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, id uuid.UUID, upd CategoryUpdate) (*models.Category, error) {
	b := newSetBuilder()
	if upd.Name != nil {
		b.set("name", *upd.Name)
	}
	if upd.Slug != nil {
		b.set("slug", *upd.Slug)
	}
	if upd.Description != nil {
		b.set("description", *upd.Description)
	}
	if b.empty() {
		return s.GetCategory(ctx, Ref{ID: id})
	}
	b.raw("updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE categories SET %s WHERE id = $%d RETURNING `+categoryColumns,
		b.clause(), b.next())
	category, err := scanCategory(s.pool.QueryRow(ctx, query, b.with(id)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Media ---

const mediaColumns = `id, filename, file_path, file_url, content_type, size_bytes, alt_text, created_at`

func scanMedia(row pgx.Row) (*models.Media, error) {
	var m models.Media
	err := row.Scan(&m.ID, &m.Filename, &m.FilePath, &m.FileURL, &m.ContentType,
		&m.SizeBytes, &m.AltText, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PostgresStore) ListMedia(ctx context.Context, limit, offset int) ([]*models.Media, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM media`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+mediaColumns+` FROM media ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var media []*models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan media: %w", err)
		}
		media = append(media, m)
	}
	return media, total, rows.Err()
}

func (s *PostgresStore) GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	media, err := scanMedia(s.pool.QueryRow(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return media, nil
}

func (s *PostgresStore) CreateMedia(ctx context.Context, m *models.Media) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO media (id, filename, file_path, file_url, content_type, size_bytes, alt_text, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.Filename, m.FilePath, m.FileURL, m.ContentType, m.SizeBytes, m.AltText, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create media: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateMedia(ctx context.Context, id uuid.UUID, upd MediaUpdate) (*models.Media, error) {
	b := newSetBuilder()
	if upd.Filename != nil {
		b.set("filename", *upd.Filename)
	}
	if upd.AltText != nil {
		b.set("alt_text", *upd.AltText)
	}
	if b.empty() {
		return s.GetMedia(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE media SET %s WHERE id = $%d RETURNING `+mediaColumns,
		b.clause(), b.next())
	media, err := scanMedia(s.pool.QueryRow(ctx, query, b.with(id)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update media: %w", err)
	}
	return media, nil
}

func (s *PostgresStore) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// refQuery appends the WHERE clause matching the ref variant.
func refQuery(base string, ref Ref) (string, any) {
	if ref.IsID() {
		return base + " WHERE id = $1", ref.ID
	}
	return base + " WHERE slug = $1", ref.Slug
}
