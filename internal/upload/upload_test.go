package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"amc-backend/internal/apperr"
	"amc-backend/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func sheetRequest() Request {
	return Request{
		Kind:       KindQuarterly,
		CustomerID: 1,
		BranchID:   2,
		Sheet:      models.ServiceSheet{FileName: "q1.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
	}
}

func TestTask_Success(t *testing.T) {
	defer goleak.VerifyNone(t)

	task := Start(context.Background(), SimulatedUploader{Delay: 5 * time.Millisecond}, sheetRequest(), time.Second)
	res, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, "simulated/1/2/q1.pdf", res.ObjectKey)
	assert.Equal(t, int64(4), res.Size)

	select {
	case <-task.Done():
	default:
		t.Fatal("Done not closed after Wait returned")
	}
	task.Cancel()
}

func TestTask_Failure(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("bucket unavailable")
	_, err := Start(context.Background(), SimulatedUploader{Fail: boom}, sheetRequest(), time.Second).Wait()

	assert.ErrorIs(t, err, apperr.ErrUpload)
	assert.ErrorIs(t, err, boom)
}

func TestTask_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := Start(context.Background(), SimulatedUploader{Delay: time.Minute}, sheetRequest(), 10*time.Millisecond).Wait()

	assert.ErrorIs(t, err, apperr.ErrUpload)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestTask_Cancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	task := Start(context.Background(), SimulatedUploader{Delay: time.Minute}, sheetRequest(), 0)
	task.Cancel()
	_, err := task.Wait()

	assert.ErrorIs(t, err, context.Canceled)
}

func TestTask_ParentContextCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	task := Start(ctx, SimulatedUploader{Delay: time.Minute}, sheetRequest(), time.Minute)
	cancel()
	_, err := task.Wait()

	assert.ErrorIs(t, err, context.Canceled)
}

func TestGuard(t *testing.T) {
	g := NewGuard()

	release, err := g.TryAcquire(1, 1)
	require.NoError(t, err)
	assert.True(t, g.InFlight(1, 1))

	_, err = g.TryAcquire(1, 1)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	other, err := g.TryAcquire(1, 2)
	require.NoError(t, err)
	other()

	release()
	release()
	assert.False(t, g.InFlight(1, 1))

	release, err = g.TryAcquire(1, 1)
	require.NoError(t, err)
	release()
}

func TestGuard_ConcurrentAcquire(t *testing.T) {
	g := NewGuard()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	start := make(chan struct{})
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := g.TryAcquire(3, 3); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()
	assert.Equal(t, 1, granted)
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Uploader(t *testing.T) {
	putter := &fakePutter{}
	u := NewS3UploaderWithClient(putter, "amc-sheets", "service-sheets")

	res, err := u.Upload(context.Background(), sheetRequest())
	require.NoError(t, err)

	assert.Equal(t, "amc-sheets", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "%PDF", putter.body)
	assert.Equal(t, aws.ToString(putter.input.Key), res.ObjectKey)
	assert.True(t, strings.HasPrefix(res.ObjectKey, "service-sheets/customer-1/branch-2/quarterly/"))
	assert.True(t, strings.HasSuffix(res.ObjectKey, "-q1.pdf"))

	putter.err = errors.New("access denied")
	_, err = u.Upload(context.Background(), sheetRequest())
	assert.Error(t, err)
}
