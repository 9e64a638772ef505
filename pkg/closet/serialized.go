package closet

import (
	"github.com/aeriskit/closet/internal/closeterr"
	"github.com/aeriskit/closet/internal/constants"
	"github.com/aeriskit/closet/pkg/ccrypto"
)

// SerializedCloset is the on-disk container: a salt, a KDF profile, and a
// fixed-capacity slot array of ClosedDrawers, real and decoy alike,
// computationally indistinguishable from one another.
//
// free tracks, for each slot, whether this process knows it to hold decoy
// garbage safe to overwrite without risking an unseen real drawer. It is
// never serialized — the whole point of the design is that nothing on disk
// may reveal which slots are real — so it starts all-false on Load and is
// populated only as this process itself creates or regenerates slots. See
// SPEC_FULL.md §3 for why CreateTakeDrawer therefore always grows capacity
// on a freshly loaded closet rather than reusing a loaded slot.
type SerializedCloset struct {
	Salt    []byte
	Profile constants.KDFProfile
	Slots   []ClosedDrawer

	free []bool
}

// New creates a brand new closet: a fresh salt, a minimum-capacity slot
// array filled with decoys, and one real drawer with empty content sealed
// at a random slot under passphrase. Establishing that one real drawer up
// front means the very first save is structurally identical to any later
// one.
func New(passphrase string) (*SerializedCloset, error) {
	const op = "New"

	salt, err := ccrypto.NewSalt()
	if err != nil {
		return nil, closeterr.New(closeterr.KindInternal, op, err)
	}

	sc := &SerializedCloset{
		Salt:    salt,
		Profile: constants.DefaultProfile,
		Slots:   make([]ClosedDrawer, constants.MinSlots),
		free:    make([]bool, constants.MinSlots),
	}

	for i := range sc.Slots {
		decoy, err := generateDecoy(0)
		if err != nil {
			return nil, closeterr.New(closeterr.KindInternal, op, err)
		}
		sc.Slots[i] = decoy
		sc.free[i] = true
	}

	realIdx, err := ccrypto.SecureIntn(len(sc.Slots))
	if err != nil {
		return nil, err
	}
	content := &DrawerContent{Nested: newEmptyNested()}
	closed, err := sealDrawer(content, passphrase, sc.Salt, sc.Profile, 0)
	if err != nil {
		return nil, err
	}
	sc.Slots[realIdx] = closed
	sc.free[realIdx] = false

	return sc, nil
}

// newEmptyNested builds the nested closet every brand-new DrawerContent
// carries: minimum capacity, all decoy, zero real drawers. It is safe
// because a never-populated nested closet is exactly as indistinguishable
// as a populated one — every slot in it looks like every other slot
// anywhere else in the file.
func newEmptyNested() *SerializedCloset {
	salt := ccrypto.MustSecureRandomBytes(constants.SaltSize)
	sc := &SerializedCloset{
		Salt:    salt,
		Profile: constants.DefaultProfile,
		Slots:   make([]ClosedDrawer, constants.MinSlots),
		free:    make([]bool, constants.MinSlots),
	}
	for i := range sc.Slots {
		decoy, err := generateDecoy(0)
		if err != nil {
			// generateDecoy only fails if the CSPRNG itself fails, which is
			// already unrecoverable everywhere else in this package.
			panic("closet: CSPRNG failed while building nested closet: " + err.Error())
		}
		sc.Slots[i] = decoy
		sc.free[i] = true
	}
	return sc
}

// Load parses container bytes into a SerializedCloset without performing
// any cryptography. A malformed container is always CorruptFile; an
// unrecognized format version or KDF profile is UnsupportedVersion.
func Load(data []byte) (*SerializedCloset, error) {
	return decodeSerializedClosetFile(data)
}

// Save serializes sc into the on-disk container format, including the file
// magic and version. Atomicity of writing the result is provided by
// pkg/closetfile.
func (sc *SerializedCloset) Save() ([]byte, error) {
	return sc.encodeFile()
}

// maxBucketIdx returns the largest bucket index among every current slot,
// derived from each slot's ciphertext length — public information already
// visible on disk, so using it to size decoys leaks nothing further.
func (sc *SerializedCloset) maxBucketIdx() int {
	max := 0
	for _, s := range sc.Slots {
		if idx := s.bucketIndexOf(sc.Profile); idx > max {
			max = idx
		}
	}
	return max
}

// findSlot attempts to decrypt every slot with passphrase, always scanning
// the entire array rather than stopping at the first success (resolving
// Open Question (b) toward the constant-time option). It returns the index
// of a successful decryption, if any, and the content decoded there.
func (sc *SerializedCloset) findSlot(passphrase string) (idx int, content *DrawerContent, found bool) {
	for i, s := range sc.Slots {
		c, err := openDrawer(s, passphrase, sc.Salt, sc.Profile)
		if err == nil && !found {
			idx, content, found = i, c, true
		}
	}
	return idx, content, found
}

// growSlots doubles slot capacity, filling new slots with fresh decoys, and
// returns the index of one newly-appended, known-free slot.
func (sc *SerializedCloset) growSlots() (int, error) {
	oldLen := len(sc.Slots)
	newLen := oldLen * constants.SlotGrowthFactor
	if newLen <= oldLen {
		newLen = oldLen + constants.MinSlots
	}

	maxIdx := sc.maxBucketIdx()
	for i := oldLen; i < newLen; i++ {
		decoy, err := generateDecoy(maxIdx)
		if err != nil {
			return 0, closeterr.New(closeterr.KindInternal, "growSlots", err)
		}
		sc.Slots = append(sc.Slots, decoy)
		sc.free = append(sc.free, true)
	}

	return oldLen, nil
}

// allocateFreeSlot returns the index of a slot known to this process to be
// free (a decoy this process generated itself), growing capacity first if
// none exists. A freshly Load()-ed closet has no known-free slots and will
// always grow here, per the free-tracking policy documented on the type.
func (sc *SerializedCloset) allocateFreeSlot() (int, error) {
	for i, free := range sc.free {
		if free {
			return i, nil
		}
	}
	return sc.growSlots()
}

// removeSlot takes slot idx out of the array conceptually by marking it
// occupied (not free); the slot's existing bytes are left in place until a
// reseal overwrites them. The caller (OpenCloset) is responsible for
// tracking that the slot is currently "opened" and must not be touched
// again until PushBack.
func (sc *SerializedCloset) removeSlot(idx int) {
	sc.free[idx] = false
}

// regenerateDecoysAndPermute regenerates every slot this process knows to
// be free (decoys, never a real drawer whose passphrase wasn't supplied
// this session) and then permutes the entire slot array together with its
// parallel free-tracking array. Called once per save, after every opened
// drawer in the frame has already been resealed and reinserted.
func (sc *SerializedCloset) regenerateDecoysAndPermute() error {
	maxIdx := sc.maxBucketIdx()
	for i, free := range sc.free {
		if !free {
			continue
		}
		decoy, err := generateDecoy(maxIdx)
		if err != nil {
			return closeterr.New(closeterr.KindInternal, "regenerateDecoysAndPermute", err)
		}
		sc.Slots[i] = decoy
	}

	perm, err := ccrypto.SecurePerm(len(sc.Slots))
	if err != nil {
		return closeterr.New(closeterr.KindInternal, "regenerateDecoysAndPermute", err)
	}
	slots := make([]ClosedDrawer, len(sc.Slots))
	free := make([]bool, len(sc.free))
	for newIdx, oldIdx := range perm {
		slots[newIdx] = sc.Slots[oldIdx]
		free[newIdx] = sc.free[oldIdx]
	}
	sc.Slots = slots
	sc.free = free

	return nil
}
