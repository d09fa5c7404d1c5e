package profileviewapp

import (
	"reelprofile/internal/core/session"
	eventsPort "reelprofile/internal/ports/events"

	"go.uber.org/zap"
)

// Factory برای هر بازدید (مثلا هر درخواست HTTP) یک Assembler و FollowController تازه می‌سازد
type Factory struct {
	Deps       Dependencies
	Publisher  eventsPort.RelationshipPublisher
	Logger     *zap.Logger
	PostsLimit int
}

func NewFactory(deps Dependencies, publisher eventsPort.RelationshipPublisher, logger *zap.Logger, postsLimit int) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{
		Deps:       deps,
		Publisher:  publisher,
		Logger:     logger,
		PostsLimit: postsLimit,
	}
}

func (f *Factory) New(sess *session.Session) (*Assembler, *FollowController) {
	view := NewAssembler(f.Deps, sess, f.Logger, WithPostsLimit(f.PostsLimit))
	return view, NewFollowController(view, f.Publisher, f.Logger)
}
