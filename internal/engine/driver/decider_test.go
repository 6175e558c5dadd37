package driver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports/mocks"
	"go.trai.ch/stratum/internal/engine/driver"
	"go.uber.org/mock/gomock"
)

func TestDecider_NeedsReconfigure(t *testing.T) {
	want := domain.Fingerprint{Target: domain.TargetDesktop, Dynamic: false}

	tests := []struct {
		name    string
		force   bool
		stored  *domain.Fingerprint
		getErr  error
		want    bool
		wantErr bool
	}{
		{name: "forced", force: true, want: true},
		{name: "no record", stored: nil, want: true},
		{name: "matching record", stored: &domain.Fingerprint{Target: domain.TargetDesktop}, want: false},
		{name: "linkage changed", stored: &domain.Fingerprint{Target: domain.TargetDesktop, Dynamic: true}, want: true},
		{name: "target changed", stored: &domain.Fingerprint{Target: domain.TargetFirmware}, want: true},
		{name: "unreadable record", getErr: errors.New("corrupt"), want: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockFingerprintStore(ctrl)
			if tt.force {
				store.EXPECT().Get(gomock.Any()).Times(0)
			} else {
				store.EXPECT().Get("/build/desktop").Return(tt.stored, tt.getErr)
			}

			got, err := driver.NewDecider(store).NeedsReconfigure("/build/desktop", want, tt.force)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
