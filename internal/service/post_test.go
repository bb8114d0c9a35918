package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

type fakePostRepo struct {
	posts    map[uint]domain.Post
	comments map[uint]domain.Comment
	nextID   uint
}

func newFakePostRepo(posts ...domain.Post) *fakePostRepo {
	r := &fakePostRepo{
		posts:    make(map[uint]domain.Post),
		comments: make(map[uint]domain.Comment),
		nextID:   100,
	}
	for _, p := range posts {
		r.posts[p.ID] = p
	}

	return r
}

func (r *fakePostRepo) Create(_ context.Context, post domain.Post) (domain.Post, error) {
	post.ID = r.nextID
	r.nextID++
	r.posts[post.ID] = post

	return post, nil
}

func (r *fakePostRepo) Update(_ context.Context, post domain.Post) (domain.Post, error) {
	if _, ok := r.posts[post.ID]; !ok {
		return domain.Post{}, repository.ErrPostNotFound
	}
	r.posts[post.ID] = post

	return post, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(r.posts, id)
	for cid, c := range r.comments {
		if c.PostID == id {
			delete(r.comments, cid)
		}
	}

	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id uint, _ uint) (domain.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return domain.Post{}, repository.ErrPostNotFound
	}

	return post, nil
}

func (r *fakePostRepo) FindAll(_ context.Context) ([]domain.Post, error) {
	all := make([]domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		all = append(all, p)
	}

	return all, nil
}

func (r *fakePostRepo) FindPublished(_ context.Context, _ uint) ([]domain.Post, error) {
	published := make([]domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if p.Published {
			published = append(published, p)
		}
	}

	return published, nil
}

func (r *fakePostRepo) PublishDue(_ context.Context, now time.Time) ([]domain.Post, error) {
	var flipped []domain.Post
	for id, p := range r.posts {
		if !p.Published && p.PublishAt != nil && !p.PublishAt.After(now) {
			p.Published = true
			r.posts[id] = p
			flipped = append(flipped, p)
		}
	}

	return flipped, nil
}

func (r *fakePostRepo) CreateComment(_ context.Context, comment domain.Comment) (domain.Comment, error) {
	comment.ID = r.nextID
	r.nextID++
	r.comments[comment.ID] = comment

	return comment, nil
}

func (r *fakePostRepo) FindCommentByID(_ context.Context, id uint) (domain.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return domain.Comment{}, repository.ErrCommentNotFound
	}

	return comment, nil
}

func (r *fakePostRepo) FindCommentsByPostID(_ context.Context, postID uint) ([]domain.Comment, error) {
	var found []domain.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			found = append(found, c)
		}
	}

	return found, nil
}

func (r *fakePostRepo) DeleteComment(_ context.Context, id uint) error {
	delete(r.comments, id)

	return nil
}

func (r *fakePostRepo) React(_ context.Context, postID, userID uint, kind domain.ReactionKind) error {
	if _, ok := r.posts[postID]; !ok {
		return repository.ErrPostNotFound
	}

	return nil
}

type recordingNotifier struct {
	published []domain.Post
	events    []string
}

func (n *recordingNotifier) PostPublished(post domain.Post) {
	n.published = append(n.published, post)
}

func (n *recordingNotifier) Notify(event, _ string) {
	n.events = append(n.events, event)
}

func TestPostService_CreatePost(t *testing.T) {
	t.Run("publishes immediately without publish_at", func(t *testing.T) {
		repo := newFakePostRepo()
		notifier := &recordingNotifier{}
		svc := NewPostService(repo, notifier)

		created, err := svc.CreatePost(context.Background(), domain.Post{Title: "Hello", Body: "World"})

		require.NoError(t, err)
		assert.True(t, created.Published)
		require.Len(t, notifier.published, 1)
		assert.Equal(t, created.ID, notifier.published[0].ID)
	})

	t.Run("schedules a future publish_at", func(t *testing.T) {
		repo := newFakePostRepo()
		notifier := &recordingNotifier{}
		svc := NewPostService(repo, notifier)

		future := time.Now().Add(time.Hour)
		created, err := svc.CreatePost(context.Background(), domain.Post{Title: "Later", PublishAt: &future})

		require.NoError(t, err)
		assert.False(t, created.Published)
		assert.Empty(t, notifier.published)
	})

	t.Run("a past publish_at publishes immediately", func(t *testing.T) {
		repo := newFakePostRepo()
		notifier := &recordingNotifier{}
		svc := NewPostService(repo, notifier)

		past := time.Now().Add(-time.Hour)
		created, err := svc.CreatePost(context.Background(), domain.Post{Title: "Now", PublishAt: &past})

		require.NoError(t, err)
		assert.True(t, created.Published)
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Run("editing a live post keeps it published", func(t *testing.T) {
		repo := newFakePostRepo(domain.Post{ID: 1, Title: "Live", Published: true})
		notifier := &recordingNotifier{}
		svc := NewPostService(repo, notifier)

		updated, err := svc.UpdatePost(context.Background(), domain.Post{ID: 1, Title: "Live, retitled"})

		require.NoError(t, err)
		assert.True(t, updated.Published)
		assert.True(t, repo.posts[1].Published)
		assert.Empty(t, notifier.published)
	})

	t.Run("clearing publish_at takes a scheduled post live", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		repo := newFakePostRepo(domain.Post{ID: 1, Title: "Scheduled", PublishAt: &future})
		notifier := &recordingNotifier{}
		svc := NewPostService(repo, notifier)

		updated, err := svc.UpdatePost(context.Background(), domain.Post{ID: 1, Title: "Scheduled"})

		require.NoError(t, err)
		assert.True(t, updated.Published)
		require.Len(t, notifier.published, 1)
	})

	t.Run("a future publish_at reschedules a live post", func(t *testing.T) {
		repo := newFakePostRepo(domain.Post{ID: 1, Title: "Live", Published: true})
		svc := NewPostService(repo, nil)

		future := time.Now().Add(time.Hour)
		updated, err := svc.UpdatePost(context.Background(), domain.Post{ID: 1, Title: "Live", PublishAt: &future})

		require.NoError(t, err)
		assert.False(t, updated.Published)
	})
}

func TestPostService_PublishDue(t *testing.T) {
	now := time.Now()
	due := now.Add(-time.Minute)
	notYet := now.Add(time.Hour)

	repo := newFakePostRepo(
		domain.Post{ID: 1, Title: "Due", PublishAt: &due},
		domain.Post{ID: 2, Title: "Not yet", PublishAt: &notYet},
		domain.Post{ID: 3, Title: "Already live", Published: true},
	)
	notifier := &recordingNotifier{}
	svc := NewPostService(repo, notifier)

	published, err := svc.PublishDue(context.Background(), now)

	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, uint(1), published[0].ID)
	require.Len(t, notifier.published, 1)
	assert.True(t, repo.posts[1].Published)
	assert.False(t, repo.posts[2].Published)
}

func TestPostService_ListForUser(t *testing.T) {
	groupA := uint(1)
	user := domain.User{ID: 7, GroupID: &groupA}

	repo := newFakePostRepo(
		domain.Post{ID: 1, Title: "Public", Published: true},
		domain.Post{ID: 2, Title: "For group A", Published: true, GroupIDs: []uint{groupA}},
		domain.Post{ID: 3, Title: "For group B", Published: true, GroupIDs: []uint{2}},
	)
	svc := NewPostService(repo, nil)

	posts, err := svc.ListForUser(context.Background(), user)
	require.NoError(t, err)

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uint{1, 2}, ids)
}

func TestPostService_DeleteComment(t *testing.T) {
	author := domain.User{ID: 7, Role: domain.RoleUser}
	other := domain.User{ID: 8, Role: domain.RoleUser}
	admin := domain.User{ID: 9, Role: domain.RoleAdmin}

	setup := func() (*fakePostRepo, *PostService) {
		repo := newFakePostRepo(domain.Post{ID: 1, Published: true})
		repo.comments[50] = domain.Comment{ID: 50, PostID: 1, UserID: author.ID, Body: "mine"}

		return repo, NewPostService(repo, nil)
	}

	t.Run("author can delete", func(t *testing.T) {
		repo, svc := setup()

		err := svc.DeleteComment(context.Background(), author, 50)

		require.NoError(t, err)
		assert.Empty(t, repo.comments)
	})

	t.Run("admin can delete", func(t *testing.T) {
		repo, svc := setup()

		err := svc.DeleteComment(context.Background(), admin, 50)

		require.NoError(t, err)
		assert.Empty(t, repo.comments)
	})

	t.Run("another user cannot delete", func(t *testing.T) {
		repo, svc := setup()

		err := svc.DeleteComment(context.Background(), other, 50)

		assert.ErrorIs(t, err, ErrNotCommentAuthor)
		assert.Len(t, repo.comments, 1)
	})
}

func TestPostService_React(t *testing.T) {
	groupA := uint(1)
	user := domain.User{ID: 7, GroupID: &groupA}

	t.Run("rejects an unknown reaction kind", func(t *testing.T) {
		repo := newFakePostRepo(domain.Post{ID: 1, Published: true})
		svc := NewPostService(repo, nil)

		err := svc.React(context.Background(), user, 1, "love")

		assert.ErrorIs(t, err, ErrInvalidReaction)
	})

	t.Run("rejects a post hidden from the user", func(t *testing.T) {
		repo := newFakePostRepo(domain.Post{ID: 1, Published: true, GroupIDs: []uint{99}})
		svc := NewPostService(repo, nil)

		err := svc.React(context.Background(), user, 1, domain.ReactionLike)

		assert.ErrorIs(t, err, ErrPostNotVisible)
	})

	t.Run("rejects an unpublished post for regular users", func(t *testing.T) {
		repo := newFakePostRepo(domain.Post{ID: 1, Published: false})
		svc := NewPostService(repo, nil)

		err := svc.React(context.Background(), user, 1, domain.ReactionLike)

		assert.ErrorIs(t, err, ErrPostNotVisible)
	})

	t.Run("accepts a like on a visible post", func(t *testing.T) {
		repo := newFakePostRepo(domain.Post{ID: 1, Published: true})
		svc := NewPostService(repo, nil)

		err := svc.React(context.Background(), user, 1, domain.ReactionLike)

		assert.NoError(t, err)
	})
}
