package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store / core.KeyValueStore / core.CatalogStore / core.HistoryStore 接口。
//
// 示例：
//   var kv core.KeyValueStore = store.NewMemoryStore()
//   var catalog core.CatalogStore = store.NewMemoryCatalog()
//   var history core.HistoryStore = store.NewKVHistory(kv, "rec:history")
