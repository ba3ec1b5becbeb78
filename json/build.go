package json

import "fmt"

// ─── 节点构造 API ───
//
// 供传感器等采集端直接构造数值树再交给 Writer 序列化，不经过解析:
//
//	a := json.NewArena(8, 64)
//	obj, _ := a.NewObject()
//	v, _ := a.NewFloat(reading)
//	_ = obj.Set("dpr", v)
//	out := json.AppendNode(nil, obj)

func (a *Arena) newNode(k Kind) (Node, error) {
	h, err := a.alloc(k)
	if err != nil {
		return Node{}, err
	}
	return Node{a: a, h: h}, nil
}

// NewNull 分配 null 节点
func (a *Arena) NewNull() (Node, error) { return a.newNode(KindNull) }

// NewBool 分配布尔节点
func (a *Arena) NewBool(b bool) (Node, error) {
	n, err := a.newNode(KindBool)
	if err == nil {
		n.slot().b = b
	}
	return n, err
}

// NewInt 分配整数节点
func (a *Arena) NewInt(i int64) (Node, error) {
	n, err := a.newNode(KindInt)
	if err == nil {
		n.slot().i = i
	}
	return n, err
}

// NewFloat 分配浮点节点
func (a *Arena) NewFloat(f float64) (Node, error) {
	n, err := a.newNode(KindFloat)
	if err == nil {
		n.slot().f = f
	}
	return n, err
}

// NewString 分配字符串节点（s 复制到 Arena 的字符串存储）
func (a *Arena) NewString(s string) (Node, error) {
	cp, err := a.copyString(s)
	if err != nil {
		return Node{}, err
	}
	n, err := a.newNode(KindString)
	if err == nil {
		n.slot().s = cp
	}
	return n, err
}

// NewArray 分配空数组节点
func (a *Arena) NewArray() (Node, error) { return a.newNode(KindArray) }

// NewObject 分配空对象节点
func (a *Arena) NewObject() (Node, error) { return a.newNode(KindObject) }

func (a *Arena) copyString(s string) (string, error) {
	a.strs.Begin()
	for i := 0; i < len(s); i++ {
		if !a.strs.WriteByte(s[i]) {
			a.strs.Discard()
			return "", ErrCapacityExceeded
		}
	}
	return b2s(a.strs.Commit()), nil
}

// checkChild 子节点必须同属一个 Arena、尚未挂载、且下标大于容器（保证无环）
func (n Node) checkChild(child Node, want Kind) error {
	if n.Kind() != want {
		return fmt.Errorf("%w: %s is not an %s", ErrStructural, n.Kind(), want)
	}
	if !child.Valid() || child.a != n.a {
		return fmt.Errorf("%w: child belongs to another arena", ErrStructural)
	}
	if child.slot().owned {
		return fmt.Errorf("%w: child is already linked", ErrStructural)
	}
	if child.h <= n.h {
		return fmt.Errorf("%w: child must be allocated after its container", ErrStructural)
	}
	return nil
}

// Append 把 child 追加到数组末尾
func (n Node) Append(child Node) error {
	if err := n.checkChild(child, KindArray); err != nil {
		return err
	}
	n.a.link(n.h, child.h, "", false)
	return nil
}

// Set 向对象追加 (key, child)；key 复制到 Arena，已存在的同名键不会被覆盖
func (n Node) Set(key string, child Node) error {
	if err := n.checkChild(child, KindObject); err != nil {
		return err
	}
	k, err := n.a.copyString(key)
	if err != nil {
		return err
	}
	n.a.link(n.h, child.h, k, true)
	return nil
}
