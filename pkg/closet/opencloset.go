package closet

import (
	"context"

	"github.com/aeriskit/closet/internal/closeterr"
	"github.com/aeriskit/closet/pkg/telemetry"
)

// OpenDrawer is a drawer currently held open in memory: its slot index in
// its parent frame, the passphrase that unlocked (or created) it, a unique
// open_id assigned when it was opened, and its decrypted content.
//
// Password is retained so the drawer can be resealed on save without
// re-prompting; callers should treat it as sensitive and zero it (via
// ccrypto.Zeroize on the string's backing bytes is not possible in Go, so
// in practice this means dropping the reference and letting the GC reclaim
// it) once the drawer is no longer open.
type OpenDrawer struct {
	DrawerIdx    int
	Password     string
	OpenID       uint64
	Content      *DrawerContent
	PrevBucketIdx int
}

// Frame is one level of the OpenCloset stack: the serialized closet being
// browsed at this level, and the one drawer (if any) currently opened out
// of it.
type Frame struct {
	Closet *SerializedCloset
	Opened *OpenDrawer
}

// OpenCloset is the runtime stack of frames mediating access to a closet
// file: which drawers are unlocked, in what nesting, and how a save walks
// back down to bytes.
type OpenCloset struct {
	frames      []*Frame
	nextOpenID  uint64
	justCreated bool
}

// Create builds a single-frame OpenCloset over top. IsJustCreated reports
// true until the first successful CloseAndSave.
func Create(top *SerializedCloset) *OpenCloset {
	return &OpenCloset{
		frames:      []*Frame{{Closet: top}},
		justCreated: true,
	}
}

// Depth reports the current stack depth: 1 at the top level, 2 inside one
// nested drawer, and so on.
func (oc *OpenCloset) Depth() int {
	return len(oc.frames)
}

// IsJustCreated reports whether this OpenCloset has never been through a
// successful CloseAndSave.
func (oc *OpenCloset) IsJustCreated() bool {
	return oc.justCreated
}

func (oc *OpenCloset) top() *Frame {
	return oc.frames[len(oc.frames)-1]
}

func (oc *OpenCloset) allocOpenID() uint64 {
	oc.nextOpenID++
	return oc.nextOpenID
}

// CreateTakeDrawer derives the cipher for passphrase and first checks it
// doesn't already open some other slot in the topmost frame (returning
// ErrDuplicatePassphrase if it does), then allocates a free slot — growing
// capacity first if none is available — and returns a fresh, empty
// OpenDrawer holding that slot out of the frame's array (I4).
func (oc *OpenCloset) CreateTakeDrawer(passphrase string) (drawer *OpenDrawer, err error) {
	const op = "CreateTakeDrawer"

	_, end := telemetry.StartSpan(context.Background(), telemetry.SpanCreateDrawer,
		telemetry.WithAttributes(telemetry.SpanAttributes{Depth: oc.Depth()}.ToMap()))
	defer func() { end(err) }()

	frame := oc.top()
	if frame.Opened != nil {
		return nil, closeterr.New(closeterr.KindInternal, op, nil)
	}

	if _, _, found := frame.Closet.findSlot(passphrase); found {
		return nil, closeterr.New(closeterr.KindDuplicatePassphrase, op, nil)
	}

	idx, err := frame.Closet.allocateFreeSlot()
	if err != nil {
		return nil, err
	}
	frame.Closet.removeSlot(idx)

	drawer = &OpenDrawer{
		DrawerIdx: idx,
		Password:  passphrase,
		OpenID:    oc.allocOpenID(),
		Content:   &DrawerContent{Nested: newEmptyNested()},
	}
	frame.Opened = drawer
	return drawer, nil
}

// OpenTakeDrawer attempts to decrypt every slot in the topmost frame with
// passphrase, scanning the whole array regardless of where (or whether) a
// match is found (Open Question (b), resolved toward constant-time). On a
// match it removes that slot from the frame's array (I4) and returns the
// decoded OpenDrawer; otherwise it returns an ErrAead-wrapped error,
// indistinguishable from the error a corrupt or decoy slot would produce.
func (oc *OpenCloset) OpenTakeDrawer(passphrase string) (drawer *OpenDrawer, err error) {
	const op = "OpenTakeDrawer"

	_, end := telemetry.StartSpan(context.Background(), telemetry.SpanOpenDrawer,
		telemetry.WithAttributes(telemetry.SpanAttributes{Depth: oc.Depth()}.ToMap()))
	defer func() { end(err) }()

	frame := oc.top()
	if frame.Opened != nil {
		return nil, closeterr.New(closeterr.KindInternal, op, nil)
	}

	idx, content, found := frame.Closet.findSlot(passphrase)
	if !found {
		return nil, closeterr.New(closeterr.KindAead, op, nil)
	}

	prevBucket := frame.Closet.Slots[idx].bucketIndexOf(frame.Closet.Profile)
	frame.Closet.removeSlot(idx)

	drawer = &OpenDrawer{
		DrawerIdx:     idx,
		Password:      passphrase,
		OpenID:        oc.allocOpenID(),
		Content:       content,
		PrevBucketIdx: prevBucket,
	}
	frame.Opened = drawer
	return drawer, nil
}

// PushBack reseals drawer with its retained passphrase and reinserts it
// into the topmost frame's slot array at its original index, clearing the
// frame's Opened field.
func (oc *OpenCloset) PushBack(drawer *OpenDrawer) error {
	const op = "PushBack"

	frame := oc.top()
	if frame.Opened == nil || frame.Opened.OpenID != drawer.OpenID {
		return closeterr.New(closeterr.KindInternal, op, nil)
	}

	minBucket := bucketAtIndex(drawer.PrevBucketIdx)
	closed, err := sealDrawer(drawer.Content, drawer.Password, frame.Closet.Salt, frame.Closet.Profile, minBucket)
	if err != nil {
		return err
	}

	frame.Closet.Slots[drawer.DrawerIdx] = closed
	frame.Closet.free[drawer.DrawerIdx] = false
	frame.Opened = nil
	return nil
}

// OpenNestedCloset implements the nesting rule: it pushes a new frame whose
// Closet is drawer's own nested SerializedCloset, making it the topmost
// frame that CreateTakeDrawer/OpenTakeDrawer operate on. drawer must be the
// current topmost frame's Opened drawer.
func (oc *OpenCloset) OpenNestedCloset(drawer *OpenDrawer) error {
	const op = "OpenNestedCloset"

	frame := oc.top()
	if frame.Opened == nil || frame.Opened.OpenID != drawer.OpenID {
		return closeterr.New(closeterr.KindInternal, op, nil)
	}

	oc.frames = append(oc.frames, &Frame{Closet: drawer.Content.Nested})
	return nil
}

// CloseDeepestDrawer pops the topmost frame, returning to the parent
// drawer's own level. It refuses to pop the last remaining frame.
func (oc *OpenCloset) CloseDeepestDrawer() error {
	const op = "CloseDeepestDrawer"

	if len(oc.frames) <= 1 {
		return closeterr.New(closeterr.KindInternal, op, nil)
	}
	oc.frames = oc.frames[:len(oc.frames)-1]
	return nil
}

// TakeDeepestOpenDrawer returns and clears the (new) topmost frame's Opened
// drawer, for UI re-display after CloseDeepestDrawer. It returns nil if no
// drawer is currently open at that level.
func (oc *OpenCloset) TakeDeepestOpenDrawer() *OpenDrawer {
	frame := oc.top()
	d := frame.Opened
	frame.Opened = nil
	return d
}

// ChangePassword verifies newPassphrase does not already open some other
// slot in drawer's frame, then replaces drawer's stored passphrase. The
// change only takes effect in the ciphertext on the next reseal (PushBack
// or CloseAndSave).
func (oc *OpenCloset) ChangePassword(drawer *OpenDrawer, newPassphrase string) (err error) {
	const op = "ChangePassword"

	_, end := telemetry.StartSpan(context.Background(), telemetry.SpanChangePass,
		telemetry.WithAttributes(telemetry.SpanAttributes{Depth: oc.Depth()}.ToMap()))
	defer func() { end(err) }()

	frame := oc.top()
	if frame.Opened == nil || frame.Opened.OpenID != drawer.OpenID {
		return closeterr.New(closeterr.KindInternal, op, nil)
	}

	if _, _, found := frame.Closet.findSlot(newPassphrase); found {
		return closeterr.New(closeterr.KindDuplicatePassphrase, op, nil)
	}

	drawer.Password = newPassphrase
	return nil
}

// CloseAndSave walks the frame stack from deepest to shallowest, resealing
// and reinserting each frame's opened drawer (if any) before regenerating
// and permuting that frame's decoy slots, then serializes the bottom frame
// and returns the bytes for pkg/closetfile to write atomically.
//
// Processing deepest-to-shallowest matters: a shallower frame's opened
// drawer's Content.Nested *is* a deeper frame's Closet by shared pointer,
// so that drawer must not be resealed until the deeper closet is already in
// its final, padded, permuted form.
func (oc *OpenCloset) CloseAndSave() (data []byte, err error) {
	const op = "CloseAndSave"

	_, end := telemetry.StartSpan(context.Background(), telemetry.SpanCloseAndSave,
		telemetry.WithAttributes(telemetry.SpanAttributes{Depth: oc.Depth()}.ToMap()))
	defer func() { end(err) }()

	for i := len(oc.frames) - 1; i >= 0; i-- {
		frame := oc.frames[i]

		if frame.Opened != nil {
			minBucket := bucketAtIndex(frame.Opened.PrevBucketIdx)
			closed, err := sealDrawer(frame.Opened.Content, frame.Opened.Password, frame.Closet.Salt, frame.Closet.Profile, minBucket)
			if err != nil {
				return nil, err
			}
			frame.Closet.Slots[frame.Opened.DrawerIdx] = closed
			frame.Closet.free[frame.Opened.DrawerIdx] = false
			frame.Opened = nil
		}

		if err := frame.Closet.regenerateDecoysAndPermute(); err != nil {
			return nil, err
		}
	}

	data, err = oc.frames[0].Closet.Save()
	if err != nil {
		return nil, closeterr.New(closeterr.KindIo, op, err)
	}

	oc.justCreated = false
	return data, nil
}
