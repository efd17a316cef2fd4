// Package similarity 实现目录的内容相似度模型：特征签名、词频向量化、
// 两两余弦相似度矩阵，以及按种子条目排序候选的推荐器。
//
// 矩阵在每个目录快照上只计算一次，之后只读。构建需要 O(N²) 个相似度值，
// 点积最坏为 O(N²·V)，N 为目录大小，V 为词表大小。适用于几百到几千条
// 的目录；不支持增量更新，也没有近似检索。
//
// 本包不打日志，所有失败都返回给调用方。
package similarity
