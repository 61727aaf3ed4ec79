package parser

// MergeOptimizedSection 定向合并：用模型返回的内容整体替换指定章节。
// 模型被要求只返回该章节，因此不做章节内部的深合并；
// 记录中的其他章节保持原样。
func MergeOptimizedSection(record map[string]any, sectionKey string, newContent any) map[string]any {
	if record == nil {
		record = make(map[string]any)
	}
	if sectionKey == "" {
		return record
	}
	record[sectionKey] = newContent
	return record
}

// MergeOptimizedRecord 整体合并：将模型返回的（可能不完整的）记录写回现有记录。
// 逐键规则:
//   - 两边都是对象: 逐键合并，新值覆盖旧值，新记录中缺失的旧键保留
//   - 两边都是列表: 新列表整体替换旧列表
//   - 其他: 新值直接替换旧值
//
// 对同一记录自合并是幂等的。身份字段保护只在提示词层面约束，
// 合并器信任已通过解析的模型输出。
func MergeOptimizedRecord(record map[string]any, newRecord map[string]any) map[string]any {
	if record == nil {
		record = make(map[string]any)
	}
	for key, newVal := range newRecord {
		oldVal, exists := record[key]
		if !exists {
			record[key] = newVal
			continue
		}

		oldMap, oldIsMap := oldVal.(map[string]any)
		newMap, newIsMap := newVal.(map[string]any)
		if oldIsMap && newIsMap {
			for k, v := range newMap {
				oldMap[k] = v
			}
			continue
		}

		record[key] = newVal
	}
	return record
}
