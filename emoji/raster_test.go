package emoji

import "testing"

func newTestRasterizer(t *testing.T) *Rasterizer {
	t.Helper()
	r, err := NewRasterizer()
	if err != nil {
		t.Skipf("emoji 字体未就位，跳过：%v", err)
	}
	return r
}

func TestMeasurePxPositive(t *testing.T) {
	r := newTestRasterizer(t)
	w := r.MeasurePx("\U0001F600", false, false, 64)
	if w <= 0 {
		t.Fatalf("宽度应为正：%.2f", w)
	}
}

func TestMeasurePxCached(t *testing.T) {
	r := newTestRasterizer(t)
	a := r.MeasurePx("\U0001F600", false, false, 64)
	b := r.MeasurePx("\U0001F600", false, false, 64)
	if a != b {
		t.Fatalf("缓存命中应返回相同宽度：%.2f vs %.2f", a, b)
	}
	if len(r.widths) != 1 {
		t.Fatalf("同键只应有一条缓存：%d", len(r.widths))
	}
}

func TestBitmapPNGAndCache(t *testing.T) {
	r := newTestRasterizer(t)
	bm, err := r.Bitmap("\U0001F600", false, false, 64)
	if err != nil {
		t.Fatalf("栅格化失败: %v", err)
	}
	if len(bm.PNG) == 0 || bm.W <= 0 || bm.H <= 0 {
		t.Fatalf("位图数据异常：%+v", bm)
	}
	again, err := r.Bitmap("\U0001F600", false, false, 64)
	if err != nil {
		t.Fatalf("二次获取失败: %v", err)
	}
	if again != bm {
		t.Fatal("同键应命中缓存返回同一位图")
	}
	if len(r.bitmaps) != 1 {
		t.Fatalf("缓存条目数不符：%d", len(r.bitmaps))
	}
}

func TestBitmapStyleKeyedSeparately(t *testing.T) {
	r := newTestRasterizer(t)
	if _, err := r.Bitmap("\U0001F600", false, false, 64); err != nil {
		t.Fatalf("栅格化失败: %v", err)
	}
	if _, err := r.Bitmap("\U0001F600", true, false, 64); err != nil {
		t.Fatalf("栅格化失败: %v", err)
	}
	if len(r.bitmaps) != 2 {
		t.Fatalf("不同样式应分键缓存：%d", len(r.bitmaps))
	}
}
