package translate

import (
	"testing"

	"github.com/ardent-systems/chitlm/internal/protocol/chi"
)

func TestReqToInternal_AllSupportedOpcodesMap(t *testing.T) {
	opcodes := []chi.ReqOpcode{
		chi.ReqReadShared, chi.ReqReadClean, chi.ReqReadOnce, chi.ReqReadNoSnp,
		chi.ReqReadUnique, chi.ReqReadNotSharedDirty, chi.ReqReadPreferUnique,
		chi.ReqMakeReadUnique, chi.ReqCleanUnique, chi.ReqMakeUnique, chi.ReqEvict,
		chi.ReqStashOnceSepShared, chi.ReqStashOnceSepUnique, chi.ReqWriteNoSnpPtl,
		chi.ReqWriteNoSnpFull, chi.ReqWriteUniqueZero, chi.ReqWriteUniqueFull,
		chi.ReqWriteBackFull, chi.ReqWriteEvictOrEvict,
	}
	for _, op := range opcodes {
		if _, err := ReqToInternal(op); err != nil {
			t.Errorf("ReqToInternal(%s): unexpected error %v", op, err)
		}
	}
}

func TestReqToInternal_Collapses(t *testing.T) {
	cases := []struct {
		a, b chi.ReqOpcode
	}{
		{chi.ReqReadClean, chi.ReqReadOnce},
		{chi.ReqMakeUnique, chi.ReqCleanUnique},
		{chi.ReqWriteUniqueFull, chi.ReqWriteNoSnpFull},
		{chi.ReqReadPreferUnique, chi.ReqReadUnique},
	}
	for _, c := range cases {
		ta, err := ReqToInternal(c.a)
		if err != nil {
			t.Fatalf("ReqToInternal(%s): %v", c.a, err)
		}
		tb, err := ReqToInternal(c.b)
		if err != nil {
			t.Fatalf("ReqToInternal(%s): %v", c.b, err)
		}
		if ta != tb {
			t.Errorf("%s -> %s, %s -> %s: expected collapse onto same internal type", c.a, ta, c.b, tb)
		}
	}
}

func TestReqToInternal_UnsupportedOpcodeRejected(t *testing.T) {
	_, err := ReqToInternal(chi.ReqOpcode(255))
	if err == nil {
		t.Fatal("expected an error for an unmapped REQ opcode")
	}
}
