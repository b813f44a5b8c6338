// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package displaylist

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var testPipeline = PipelineID{Namespace: 0, Index: 0}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Rect
		want   Rect
		wantOK bool
	}{
		{"overlap", R(0, 0, 10, 10), R(5, 5, 10, 10), R(5, 5, 5, 5), true},
		{"contained", R(0, 0, 10, 10), R(2, 2, 3, 3), R(2, 2, 3, 3), true},
		{"disjoint", R(0, 0, 10, 10), R(20, 20, 5, 5), Rect{}, false},
		{"touching", R(0, 0, 10, 10), R(10, 0, 5, 5), Rect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Intersect() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := R(10, 10, 5, 5)
	if !r.Contains(Point{10, 10}) {
		t.Error("Contains(min corner) = false, want true")
	}
	if r.Contains(Point{15, 15}) {
		t.Error("Contains(max corner) = true, want false")
	}
}

func TestBuilderBalanced(t *testing.T) {
	b := NewBuilder(testPipeline, Size{100, 100})
	b.PushStackingContext(NewStackingContext(R(0, 0, 100, 100)))
	b.PushRect(R(0, 0, 50, 50), b.NewClipRegion(R(0, 0, 100, 100), nil), ColorF{1, 0, 0, 1})
	b.PopStackingContext()

	dl, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if dl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", dl.Len())
	}
	kinds := []ItemKind{KindPushStackingContext, KindRect, KindPopStackingContext}
	for i, want := range kinds {
		if got := dl.Item(i).Kind; got != want {
			t.Errorf("Item(%d).Kind = %v, want %v", i, got, want)
		}
	}
}

func TestBuilderUnbalanced(t *testing.T) {
	t.Run("unclosed", func(t *testing.T) {
		b := NewBuilder(testPipeline, Size{10, 10})
		b.PushStackingContext(NewStackingContext(R(0, 0, 10, 10)))
		if _, err := b.Finalize(); !errors.Is(err, ErrUnbalancedStackingContext) {
			t.Errorf("Finalize() error = %v, want ErrUnbalancedStackingContext", err)
		}
	})
	t.Run("extra pop", func(t *testing.T) {
		b := NewBuilder(testPipeline, Size{10, 10})
		b.PopStackingContext()
		b.PushStackingContext(NewStackingContext(R(0, 0, 10, 10)))
		b.PopStackingContext()
		if _, err := b.Finalize(); !errors.Is(err, ErrUnbalancedStackingContext) {
			t.Errorf("Finalize() error = %v, want ErrUnbalancedStackingContext", err)
		}
	})
}

func TestBuilderReusableAfterFinalize(t *testing.T) {
	b := NewBuilder(testPipeline, Size{10, 10})
	b.PushStackingContext(NewStackingContext(R(0, 0, 10, 10)))
	if _, err := b.Finalize(); err == nil {
		t.Fatal("Finalize() should fail for unclosed context")
	}
	dl, err := b.Finalize()
	if err != nil {
		t.Fatalf("second Finalize() error = %v", err)
	}
	if dl.Len() != 0 {
		t.Errorf("second Finalize() Len() = %d, want 0", dl.Len())
	}
}

func TestDisplayListImmutable(t *testing.T) {
	complexClips := []ComplexClip{{Rect: R(0, 0, 5, 5), Radius: 2}}
	b := NewBuilder(testPipeline, Size{10, 10})
	clip := b.NewClipRegion(R(0, 0, 10, 10), complexClips)
	b.PushImage(R(0, 0, 10, 10), clip, Size{10, 10}, Size{}, RenderingAuto, ImageKey{Key: 1})
	dl, err := b.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the inputs must not reach the list.
	complexClips[0].Radius = 99
	clip.Complex[0].Radius = 99

	items := dl.Items()
	items[0].Image.Key = ImageKey{Key: 42}
	items[0].Clip.Complex[0].Radius = 42

	got := dl.Item(0)
	if got.Image.Key != (ImageKey{Key: 1}) {
		t.Errorf("image key = %v, want {0 1}", got.Image.Key)
	}
	if got.Clip.Complex[0].Radius != 2 {
		t.Errorf("complex clip radius = %v, want 2", got.Clip.Complex[0].Radius)
	}
}

func TestImageSceneSingle(t *testing.T) {
	dl, err := ImageScene(testPipeline, Size{100, 100}, ImageKey{Key: 7})
	if err != nil {
		t.Fatalf("ImageScene() error = %v", err)
	}
	if dl.Pipeline() != testPipeline {
		t.Errorf("Pipeline() = %v, want %v", dl.Pipeline(), testPipeline)
	}
	if dl.ContentSize() != (Size{100, 100}) {
		t.Errorf("ContentSize() = %v, want 100x100", dl.ContentSize())
	}
	if dl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", dl.Len())
	}

	sc := dl.Item(0)
	if sc.Kind != KindPushStackingContext || sc.Context.Bounds != R(0, 0, 100, 100) {
		t.Errorf("first item = %+v, want full-viewport stacking context", sc)
	}
	if sc.Context.Transform != mgl32.Ident4() {
		t.Error("stacking context transform should be identity")
	}

	img := dl.Item(1)
	if img.Kind != KindImage {
		t.Fatalf("Item(1).Kind = %v, want image", img.Kind)
	}
	if img.Bounds != R(0, 0, 100, 100) {
		t.Errorf("image bounds = %v, want full viewport", img.Bounds)
	}
	if img.Image.Stretch != (Size{100, 100}) {
		t.Errorf("image stretch = %v, want 100x100", img.Image.Stretch)
	}
	if img.Image.Key != (ImageKey{Key: 7}) {
		t.Errorf("image key = %v, want {0 7}", img.Image.Key)
	}
	if dl.Item(2).Kind != KindPopStackingContext {
		t.Errorf("last item kind = %v, want pop", dl.Item(2).Kind)
	}
}

func TestImageSceneMultiple(t *testing.T) {
	keys := []ImageKey{{Key: 1}, {Key: 2}, {Key: 3}, {Key: 4}}
	dl, err := ImageScene(testPipeline, Size{200, 50}, keys...)
	if err != nil {
		t.Fatal(err)
	}
	if got := dl.ImageKeys(); !reflect.DeepEqual(got, keys) {
		t.Errorf("ImageKeys() = %v, want %v", got, keys)
	}
	for i := range keys {
		it := dl.Item(i + 1)
		want := R(float32(i)*50, 0, 50, 50)
		if it.Bounds != want {
			t.Errorf("image %d bounds = %v, want %v", i, it.Bounds, want)
		}
	}
}

func TestImageSceneDeterministic(t *testing.T) {
	a, err := ImageScene(testPipeline, Size{640, 480}, ImageKey{Key: 1}, ImageKey{Key: 2})
	if err != nil {
		t.Fatal(err)
	}
	b, err := ImageScene(testPipeline, Size{640, 480}, ImageKey{Key: 1}, ImageKey{Key: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Items(), b.Items()) {
		t.Error("ImageScene() produced different items for identical inputs")
	}
}

func TestImageSceneErrors(t *testing.T) {
	if _, err := ImageScene(testPipeline, Size{10, 10}); !errors.Is(err, ErrNoImages) {
		t.Errorf("no keys: error = %v, want ErrNoImages", err)
	}
	if _, err := ImageScene(testPipeline, Size{0, 10}, ImageKey{}); !errors.Is(err, ErrEmptyViewport) {
		t.Errorf("empty viewport: error = %v, want ErrEmptyViewport", err)
	}
}

func TestFromItemsRoundTrip(t *testing.T) {
	dl, err := ImageScene(testPipeline, Size{100, 100}, ImageKey{Key: 1})
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromItems(dl.Pipeline(), dl.ContentSize(), dl.Items())
	if err != nil {
		t.Fatalf("FromItems() error = %v", err)
	}
	if !reflect.DeepEqual(back.Items(), dl.Items()) {
		t.Error("FromItems() items differ from source list")
	}

	items := dl.Items()[:2] // drop the pop
	if _, err := FromItems(testPipeline, Size{100, 100}, items); !errors.Is(err, ErrUnbalancedStackingContext) {
		t.Errorf("FromItems(unbalanced) error = %v, want ErrUnbalancedStackingContext", err)
	}
}

func TestFromItemsMissingPayload(t *testing.T) {
	bounds := Rect{Size: Size{10, 10}}
	tests := []struct {
		name string
		item Item
	}{
		{"image", Item{Kind: KindImage, Bounds: bounds}},
		{"text", Item{Kind: KindText, Bounds: bounds}},
		{"context", Item{Kind: KindPushStackingContext}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []Item{{Kind: KindRect, Bounds: bounds}, tt.item}
			dl, err := FromItems(testPipeline, Size{10, 10}, items)
			if !errors.Is(err, ErrMissingPayload) {
				t.Fatalf("FromItems() error = %v, want ErrMissingPayload", err)
			}
			if dl != nil {
				t.Error("FromItems() returned a list alongside the error")
			}
		})
	}
}

func TestItemKindText(t *testing.T) {
	for k := KindRect; k <= KindPopStackingContext; k++ {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d) error = %v", k, err)
		}
		var got ItemKind
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", b, err)
		}
		if got != k {
			t.Errorf("round trip %v -> %q -> %v", k, b, got)
		}
	}
	var k ItemKind
	if err := k.UnmarshalText([]byte("circle")); err == nil {
		t.Error("UnmarshalText(circle) should fail")
	}
}

func TestEpochNext(t *testing.T) {
	if got := Epoch(3).Next(); got != 4 {
		t.Errorf("Epoch(3).Next() = %d, want 4", got)
	}
}
