package session

import "sync"

// Session نشست کاربر وارد شده؛ بیرون از موتور ساخته می‌شود و به صورت صریح پاس داده می‌شود.
// چرخه عمر: Start هنگام ورود، End هنگام خروج.
type Session struct {
	mu       sync.RWMutex
	viewerID string
	active   bool
	onEnd    []func()
}

// Start نشست جدید برای viewerID می‌سازد. شناسه خالی یعنی نشست ناشناس.
func Start(viewerID string) *Session {
	return &Session{viewerID: viewerID, active: viewerID != ""}
}

// Anonymous نشست بدون کاربر
func Anonymous() *Session {
	return &Session{}
}

// ViewerID شناسه کاربر فعلی؛ اگر نشستی فعال نباشد ok=false است
func (s *Session) ViewerID() (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return "", false
	}
	return s.viewerID, true
}

func (s *Session) Active() bool {
	_, ok := s.ViewerID()
	return ok
}

// OnEnd تابعی ثبت می‌کند که هنگام End اجرا شود (مثلا باطل کردن توکن)
func (s *Session) OnEnd(fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.mu.Lock()
	s.onEnd = append(s.onEnd, fn)
	s.mu.Unlock()
}

// End نشست را می‌بندد. فراخوانی دوباره اثری ندارد.
func (s *Session) End() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	hooks := s.onEnd
	s.onEnd = nil
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
