package mgba

/*
#include <stdio.h>
#include <stdarg.h>
#include <mgba/core/core.h>
#include <mgba/core/log.h>
#include <mgba/internal/arm/arm.h>
#include <mgba/internal/sm83/sm83.h>

bool mgbamcp_core_init(struct mCore* core) {
	return core->init(core);
}

void mgbamcp_core_deinit(struct mCore* core) {
	core->deinit(core);
}

void mgbamcp_core_base_video_size(struct mCore* core, unsigned* w, unsigned* h) {
	core->baseVideoSize(core, w, h);
}

void mgbamcp_core_current_video_size(struct mCore* core, unsigned* w, unsigned* h) {
	core->currentVideoSize(core, w, h);
}

void mgbamcp_core_set_video_buffer(struct mCore* core, color_t* buf, size_t stride) {
	core->setVideoBuffer(core, buf, stride);
}

bool mgbamcp_core_load_bios(struct mCore* core, struct VFile* vf) {
	return core->loadBIOS(core, vf, 0);
}

void mgbamcp_core_reset(struct mCore* core) {
	core->reset(core);
}

void mgbamcp_core_run_frame(struct mCore* core) {
	core->runFrame(core);
}

void mgbamcp_core_step(struct mCore* core) {
	core->step(core);
}

uint32_t mgbamcp_core_frame_counter(struct mCore* core) {
	return core->frameCounter(core);
}

void mgbamcp_core_get_game_title(struct mCore* core, char* title) {
	core->getGameTitle(core, title);
}

void mgbamcp_core_get_game_code(struct mCore* core, char* code) {
	core->getGameCode(core, code);
}

void mgbamcp_core_set_keys(struct mCore* core, uint32_t keys) {
	core->setKeys(core, keys);
}

void mgbamcp_core_add_keys(struct mCore* core, uint32_t keys) {
	core->addKeys(core, keys);
}

void mgbamcp_core_clear_keys(struct mCore* core, uint32_t keys) {
	core->clearKeys(core, keys);
}

uint8_t mgbamcp_core_bus_read8(struct mCore* core, uint32_t addr) {
	return core->busRead8(core, addr);
}

uint16_t mgbamcp_core_bus_read16(struct mCore* core, uint32_t addr) {
	return core->busRead16(core, addr);
}

uint32_t mgbamcp_core_bus_read32(struct mCore* core, uint32_t addr) {
	return core->busRead32(core, addr);
}

void mgbamcp_core_bus_write8(struct mCore* core, uint32_t addr, uint8_t v) {
	core->busWrite8(core, addr, v);
}

size_t mgbamcp_core_state_size(struct mCore* core) {
	return core->stateSize(core);
}

bool mgbamcp_core_save_state(struct mCore* core, void* state) {
	return core->saveState(core, state);
}

bool mgbamcp_core_load_state(struct mCore* core, const void* state) {
	return core->loadState(core, state);
}

void mgbamcp_arm_regs(struct mCore* core, int32_t* out, uint32_t* cpsr) {
	struct ARMCore* cpu = core->cpu;
	for (int i = 0; i < 16; i++) {
		out[i] = cpu->gprs[i];
	}
	*cpsr = cpu->cpsr.packed;
}

void mgbamcp_sm83_regs(struct mCore* core, uint8_t* out, uint16_t* sp, uint16_t* pc) {
	struct SM83Core* cpu = core->cpu;
	out[0] = cpu->a;
	out[1] = cpu->f.packed;
	out[2] = cpu->b;
	out[3] = cpu->c;
	out[4] = cpu->d;
	out[5] = cpu->e;
	out[6] = cpu->h;
	out[7] = cpu->l;
	*sp = cpu->sp;
	*pc = cpu->pc;
}

void mgbamcpGoLog(void* handle, int category, int level, char* msg);

struct mgbamcpLogger {
	struct mLogger d;
	void* handle;
};

static struct mgbamcpLogger _mgbamcpLogger;

static void mgbamcp_log(struct mLogger* logger, int category, enum mLogLevel level,
		const char* format, va_list args) {
	char buffer[1024];
	vsnprintf(buffer, sizeof(buffer), format, args);
	struct mgbamcpLogger* l = (struct mgbamcpLogger*) logger;
	mgbamcpGoLog(l->handle, category, level, buffer);
}

void mgbamcp_set_logger(void* handle) {
	_mgbamcpLogger.d.log = mgbamcp_log;
	_mgbamcpLogger.handle = handle;
	mLogSetDefaultLogger(&_mgbamcpLogger.d);
}
*/
import "C"
