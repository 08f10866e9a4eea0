package services

import (
	"log"
	"sync"
	"time"

	"arenax/internal/db"
	"arenax/internal/models"
)

// FinalizerService 异步定局服务。读路径发现某场辩论到点未定局时
// 把它排进队列，后台 worker 批量调用 FinalizeDebate；
// FinalizeDebate 本身幂等，重复入队无害。
type FinalizerService struct {
	queue   chan uint // 待定局的辩论 ID 队列
	pending map[uint]bool
	mu      sync.Mutex
}

var (
	finalizerService *FinalizerService
	finalizerOnce    sync.Once
)

// GetFinalizerService 获取单例定局服务
func GetFinalizerService() *FinalizerService {
	finalizerOnce.Do(func() {
		finalizerService = &FinalizerService{
			queue:   make(chan uint, 1000), // 缓冲队列，防止阻塞
			pending: make(map[uint]bool),
		}
		// 启动后台 worker
		go finalizerService.worker()
	})
	return finalizerService
}

// Schedule 将辩论加入定局队列（异步）
// 使用去重机制避免短时间内重复处理同一辩论
func (s *FinalizerService) Schedule(debateID uint) {
	s.mu.Lock()
	if s.pending[debateID] {
		// 已在队列中，跳过
		s.mu.Unlock()
		return
	}
	s.pending[debateID] = true
	s.mu.Unlock()

	// 非阻塞发送到队列
	select {
	case s.queue <- debateID:
		// 成功加入队列
	default:
		// 队列满了，移除 pending 标记
		s.mu.Lock()
		delete(s.pending, debateID)
		s.mu.Unlock()
		log.Printf("finalizer queue full, skipping debate %d", debateID)
	}
}

// worker 后台处理队列中的定局请求
func (s *FinalizerService) worker() {
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond) // 每 500ms 处理一批
	defer ticker.Stop()

	for {
		select {
		case debateID := <-s.queue:
			batch = append(batch, debateID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *FinalizerService) processBatch(debateIDs []uint) {
	for _, debateID := range debateIDs {
		if _, err := FinalizeDebate(debateID); err != nil {
			log.Printf("finalize debate %d failed: %v", debateID, err)
		}

		s.mu.Lock()
		delete(s.pending, debateID)
		s.mu.Unlock()
	}
}

// StartSweeper 周期扫描到点仍是 live 的辩论并入队，
// 兜底没有任何客户端触发的场次
func (s *FinalizerService) StartSweeper() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			var overdue []models.Debate
			db.DB.Select("id").
				Where("status = ? AND ends_at <= ?", models.DebateStatusLive, Now()).
				Find(&overdue)
			for _, d := range overdue {
				s.Schedule(d.ID)
			}
		}
	}()
}
