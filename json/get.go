package json

// ─── 点分路径查询 ───

// Query 按点分隔路径查询嵌套值（零分配，不切分 path）
//
// 路径格式: 点分隔的键名/数组下标，空路径返回 n 自身
//
//	root.Query("user.name")   → {"user":{"name":"yak"}} 中的 "yak"
//	root.Query("items.1")     → {"items":[1,2,3]} 中的 2
//	root.Query("a.b.c")       → {"a":{"b":{"c":true}}} 中的 true
//
// 任一段不存在时返回无效 Node（Valid 返回 false）。
func (n Node) Query(path string) Node {
	if path == "" {
		return n
	}
	for {
		// 提取下一个路径段
		dot := 0
		for dot < len(path) && path[dot] != '.' {
			dot++
		}
		key := path[:dot]
		var more bool
		if dot < len(path) {
			path = path[dot+1:]
			more = true
		} else {
			path = ""
		}

		switch n.Kind() {
		case KindObject:
			n = n.Member(key)
		case KindArray:
			idx, ok := parseIdx(key)
			if !ok {
				return Node{}
			}
			n = n.Index(idx)
		default:
			return Node{} // 无法在非容器中导航
		}
		if !n.Valid() || !more {
			return n
		}
	}
}

// Exists 路径是否存在
func (n Node) Exists(path string) bool { return n.Query(path).Valid() }

// QueryString 查询字符串值（不存在或类型不符返回 ""）
func (n Node) QueryString(path string) string { return n.Query(path).Str() }

// QueryInt 查询整数值
func (n Node) QueryInt(path string) int64 { return n.Query(path).Int() }

// QueryFloat64 查询浮点数值
func (n Node) QueryFloat64(path string) float64 { return n.Query(path).Float() }

// QueryBool 查询布尔值
func (n Node) QueryBool(path string) bool { return n.Query(path).Bool() }
